package export

import (
	"io"

	gojson "github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/frame"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

const avroBlockLength = 1024

type avroField struct {
	name    string
	avroTyp string
	ft      fieldType
}

// AvroSchema returns the Avro record schema WriteAvro uses for t. Each
// field is a union of null and long, double or string. Column names are
// mapped onto the Avro name grammar; the original name is kept in the
// field's doc.
func AvroSchema(t *frame.Table) (string, error) {
	_, schema, err := avroFields(columns(t))
	return schema, err
}

func avroFields(cols []frame.Column) ([]avroField, string, error) {
	used := make(map[string]struct{}, len(cols))
	fields := make([]avroField, len(cols))
	decl := make([]map[string]interface{}, len(cols))
	for i, c := range cols {
		ft := columnType(c)
		f := avroField{name: avroName(c.Name(), used), ft: ft, avroTyp: avroType(ft)}
		fields[i] = f
		decl[i] = map[string]interface{}{
			"name":    f.name,
			"type":    []interface{}{"null", f.avroTyp},
			"default": nil,
			"doc":     c.Name(),
		}
	}
	schema, err := gojson.Marshal(map[string]interface{}{
		"type":      "record",
		"name":      "Row",
		"namespace": "quarry",
		"fields":    decl,
	})
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrorTypeInternal, "failed to build Avro schema")
	}
	return fields, string(schema), nil
}

func avroType(ft fieldType) string {
	switch ft {
	case fieldInt:
		return "long"
	case fieldFloat:
		return "double"
	default:
		return "string"
	}
}

// WriteAvro writes t as an Avro object container file.
func WriteAvro(w io.Writer, t *frame.Table) error {
	cols := columns(t)
	fields, schema, err := avroFields(cols)
	if err != nil {
		return err
	}
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to create Avro codec")
	}
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{W: w, Codec: codec})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create Avro writer")
	}

	block := make([]interface{}, 0, avroBlockLength)
	for r := 0; r < t.NumRows(); r++ {
		native := make(map[string]interface{}, len(cols))
		for i, c := range cols {
			native[fields[i].name] = avroValue(c.At(r), fields[i])
		}
		block = append(block, native)
		if len(block) == avroBlockLength {
			if err := ocf.Append(block); err != nil {
				return errors.Wrap(err, errors.ErrorTypeData, "failed to write Avro block")
			}
			block = block[:0]
		}
	}
	if len(block) > 0 {
		if err := ocf.Append(block); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "failed to write Avro block")
		}
	}
	return nil
}

func avroValue(v scalar.Scalar, f avroField) interface{} {
	if v.Kind() == scalar.KindNull {
		return nil
	}
	switch f.ft {
	case fieldInt:
		i, _ := v.AsInt()
		return goavro.Union("long", i)
	case fieldFloat:
		x, _ := v.AsFloat()
		return goavro.Union("double", x)
	default:
		return goavro.Union("string", v.Format())
	}
}
