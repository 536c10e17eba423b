package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/quarry/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeNotFound, "source file does not exist").
		WithDetail("path", "/data/us_accidents.csv")

	fmt.Println(err.Error())

	// Output:
	// not_found: source file does not exist
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeFile, "failed to read chunk").
		WithDetail("chunk", 3)

	if errors.IsType(err, errors.ErrorTypeFile) {
		fmt.Println("This is a file error")
	}
	fmt.Println(err.Error())

	// Output:
	// This is a file error
	// file: failed to read chunk: unexpected EOF
}

// ExampleColumnNotFound shows the invalid-reference error.
func ExampleColumnNotFound() {
	err := errors.ColumnNotFound("Severity")

	column, _ := errors.Detail(err, "column")
	fmt.Println(errors.IsNotFound(err), column)
	fmt.Println(err)

	// Output:
	// true Severity
	// not_found: column "Severity" not found
}
