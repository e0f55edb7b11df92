// Package schema 导入数据的 JSON Schema 校验
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed legacy_import.schema.json
var legacyImportSchema string

// Validator 旧版导出数据校验器
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator 编译内置的 schema
func NewValidator() (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(legacyImportSchema))
	if err != nil {
		return nil, fmt.Errorf("compile import schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// ValidationError 校验失败的字段列表
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid import data: " + strings.Join(e.Fields, "; ")
}

// Validate 校验 JSON 文档，不合法时返回 *ValidationError
func (v *Validator) Validate(doc []byte) error {
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validate import data: %w", err)
	}
	if res.Valid() {
		return nil
	}
	fields := make([]string, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		fields = append(fields, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}
	return &ValidationError{Fields: fields}
}
