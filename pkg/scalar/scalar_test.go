package scalar

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Scalar
	}{
		{name: "empty is null", raw: "", expected: Null()},
		{name: "integer", raw: "42", expected: Int(42)},
		{name: "negative integer", raw: "-17", expected: Int(-17)},
		{name: "leading zeros are lossy", raw: "007", expected: Int(7)},
		{name: "float", raw: "3.25", expected: Float(3.25)},
		{name: "negative float", raw: "-0.5", expected: Float(-0.5)},
		{name: "two dots stay text", raw: "1.2.3", expected: Text("1.2.3")},
		{name: "exponent without dot stays text", raw: "1e5", expected: Text("1e5")},
		{name: "exponent with dot", raw: "1.5e3", expected: Float(1500)},
		{name: "word", raw: "CA", expected: Text("CA")},
		{name: "digit prefix word", raw: "3rd Ave", expected: Text("3rd Ave")},
		{name: "dash word", raw: "-abc", expected: Text("-abc")},
		{name: "lone dash", raw: "-", expected: Text("-")},
		{name: "leading space is text", raw: " 12", expected: Text(" 12")},
		{name: "hex float stays text", raw: "0x1.8p1", expected: Text("0x1.8p1")},
		{name: "date stays text", raw: "2016-02-08", expected: Text("2016-02-08")},
		{name: "overflow becomes float", raw: "99999999999999999999", expected: Float(1e20)},
		{name: "digit separator", raw: "1_000", expected: Int(1000)},
		{name: "digit separator in float", raw: "1_000.25", expected: Float(1000.25)},
		{name: "doubled separator stays text", raw: "1__000", expected: Text("1__000")},
		{name: "trailing separator stays text", raw: "1000_", expected: Text("1000_")},
		{name: "separator before dot stays text", raw: "1_.5", expected: Text("1_.5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Infer(tt.raw)
			assert.Equal(t, tt.expected.Kind(), got.Kind())
			assert.True(t, Equal(tt.expected, got), "got %v", got)
		})
	}
}

func TestInferText(t *testing.T) {
	assert.True(t, InferText("").IsNull())
	v := InferText("42")
	assert.Equal(t, KindText, v.Kind())
	s, _ := v.AsText()
	assert.Equal(t, "42", s)
}

func TestCompareTotalOrder(t *testing.T) {
	values := []Scalar{
		Text("b"), Float(2.5), Null(), Int(3), Text("a"), Float(math.NaN()), Int(-1), Text(""),
	}
	sort.SliceStable(values, func(i, j int) bool { return Less(values[i], values[j]) })

	kinds := make([]string, len(values))
	for i, v := range values {
		kinds[i] = v.String()
	}
	assert.Equal(t, []string{"null", "NaN", "-1", "2.5", "3", "", "a", "b"}, kinds)
}

func TestCompareMixedNumeric(t *testing.T) {
	assert.True(t, Equal(Int(1), Float(1.0)))
	assert.Equal(t, -1, Compare(Int(1), Float(1.5)))
	assert.Equal(t, 1, Compare(Float(2.0), Int(1)))
	assert.True(t, Equal(Null(), Null()))
	assert.False(t, Equal(Null(), Int(0)))
	assert.False(t, Equal(Text("1"), Int(1)))

	// 2^53+1 is not representable as float64 but must not equal 2^53.
	assert.Equal(t, 1, Compare(Int(1<<53+1), Float(1<<53)))
	assert.Equal(t, -1, Compare(Int(math.MaxInt64), Float(9.223372036854775808e18)))
}

func TestHashConsistentWithEqual(t *testing.T) {
	assert.Equal(t, Hash(Int(7)), Hash(Float(7)))
	assert.Equal(t, Hash(Null()), Hash(Null()))
	assert.Equal(t, Hash(Float(math.NaN())), Hash(Float(math.NaN())))
	assert.NotEqual(t, Hash(Text("7")), Hash(Int(7)))
	assert.NotEqual(t, Hash(Float(7.5)), Hash(Int(7)))
	assert.NotEqual(t, Hash(Text("")), Hash(Null()))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Null().Format())
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "12", Int(12).Format())
	assert.Equal(t, "7.0", Float(7).Format())
	assert.Equal(t, "0.1", Float(0.1).Format())
	assert.Equal(t, "1000000.0", Float(1e6).Format())
	assert.Equal(t, "1e+20", Float(1e20).Format())
	assert.Equal(t, "O'Brien", Text("O'Brien").Format())
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		in     Scalar
		target Kind
		out    Scalar
		ok     bool
	}{
		{"text to int", Text("12"), KindInteger, Int(12), true},
		{"padded text to int", Text(" 12 "), KindInteger, Int(12), true},
		{"float text to int fails", Text("3.7"), KindInteger, Text("3.7"), false},
		{"float to int truncates", Float(-3.7), KindInteger, Int(-3), true},
		{"nan to int fails", Float(math.NaN()), KindInteger, Float(math.NaN()), false},
		{"int to float", Int(2), KindFloat, Float(2), true},
		{"word to float fails", Text("abc"), KindFloat, Text("abc"), false},
		{"int to text", Int(5), KindText, Text("5"), true},
		{"float to text", Float(2.5), KindText, Text("2.5"), true},
		{"null stays null", Null(), KindInteger, Null(), true},
		{"empty text is null", Text(""), KindFloat, Null(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := Convert(tt.in, tt.target)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.out.Kind(), out.Kind())
			assert.True(t, Equal(tt.out, out), "got %v", out)
		})
	}
}

func TestRound(t *testing.T) {
	assert.True(t, Equal(Float(2.68), Round(Float(2.675), 2)) || Equal(Float(2.67), Round(Float(2.675), 2)))
	assert.True(t, Equal(Float(3.14), Round(Float(3.14159), 2)))
	assert.True(t, Equal(Int(5), Round(Int(5), 2)))
	assert.True(t, Equal(Int(1200), Round(Int(1234), -2)))
	assert.True(t, Equal(Float(1200), Round(Float(1234.5), -2)))
	assert.Equal(t, KindText, Round(Text("x"), 2).Kind())
	assert.True(t, Round(Null(), 2).IsNull())
}

func TestRoundNegativeDecimalsTiesToEven(t *testing.T) {
	tests := []struct {
		in       Scalar
		decimals int
		expected Scalar
	}{
		{Int(25), -1, Int(20)},
		{Int(35), -1, Int(40)},
		{Int(-25), -1, Int(-20)},
		{Int(26), -1, Int(30)},
		{Int(150), -2, Int(200)},
		{Int(250), -2, Int(200)},
		{Int(math.MaxInt64), -1, Int(math.MaxInt64)},
		{Int(123), -20, Int(0)},
		{Float(25), -1, Float(20)},
		{Float(35), -1, Float(40)},
	}
	for _, tt := range tests {
		got := Round(tt.in, tt.decimals)
		assert.Equal(t, tt.expected.Kind(), got.Kind(), "%v at %d", tt.in, tt.decimals)
		assert.True(t, Equal(tt.expected, got), "%v at %d: got %v", tt.in, tt.decimals, got)
	}
}

func TestRoundIdempotent(t *testing.T) {
	for _, f := range []float64{0.125, 1.005, 2.675, -7.4449, 123456.789, 1e-9, 0.3333333} {
		for _, d := range []int{0, 1, 2, 3, 6} {
			once := Round(Float(f), d)
			twice := Round(once, d)
			a, _ := once.AsFloat()
			b, _ := twice.AsFloat()
			assert.Equal(t, a, b, "value %v decimals %d", f, d)
		}
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("int")
	assert.True(t, ok)
	assert.Equal(t, KindInteger, k)
	k, ok = ParseKind("STR")
	assert.True(t, ok)
	assert.Equal(t, KindText, k)
	_, ok = ParseKind("decimal")
	assert.False(t, ok)
}

func TestFromInterface(t *testing.T) {
	assert.True(t, FromInterface(nil).IsNull())
	assert.True(t, Equal(Int(3), FromInterface(3)))
	assert.True(t, Equal(Float(1.5), FromInterface(1.5)))
	assert.True(t, Equal(Text("x"), FromInterface("x")))
	assert.True(t, Equal(Int(1), FromInterface(true)))
	assert.Equal(t, int64(3), Int(3).Interface())
}
