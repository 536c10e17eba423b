package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// IntegrationTest marks a test as an integration test
func IntegrationTest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

var (
	fixtureStates = []string{"CA", "TX", "NY", "WA", "FL"}
	fixtureCities = []string{"Austin", "Fresno", `San Jose, "Downtown"`, "O'Fallon", "Tacoma", ""}
)

// SalesCSV generates a deterministic sales dataset with the header
// id,state,city,amount,qty. Rows mix quoted fields, embedded separators,
// empty values and both integer and float amounts.
func SalesCSV(rows int, seed int64) string {
	r := rand.New(rand.NewSource(seed))
	var b strings.Builder
	b.WriteString("id,state,city,amount,qty\n")
	for i := 0; i < rows; i++ {
		city := fixtureCities[r.Intn(len(fixtureCities))]
		if strings.ContainsAny(city, `,"`) {
			city = `"` + strings.ReplaceAll(city, `"`, `""`) + `"`
		}
		var amount string
		switch r.Intn(4) {
		case 0:
			amount = fmt.Sprintf("%d", r.Intn(1000))
		case 1:
			amount = ""
		default:
			amount = fmt.Sprintf("%.2f", r.Float64()*1000)
		}
		fmt.Fprintf(&b, "%d,%s,%s,%s,%d\n",
			i, fixtureStates[r.Intn(len(fixtureStates))], city, amount, r.Intn(20))
	}
	return b.String()
}

// CreateSalesFile writes SalesCSV(rows, seed) to a temporary file.
func CreateSalesFile(t *testing.T, rows int, seed int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), fmt.Sprintf("sales_%d.csv", rows))
	require.NoError(t, os.WriteFile(path, []byte(SalesCSV(rows, seed)), 0o644))
	return path
}
