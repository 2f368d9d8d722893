package forms

import (
	"fmt"
	"io"
	"regexp"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
	yaml "gopkg.in/yaml.v2"
)

// ElementDefinition describes the values a form accepts under one element code
type ElementDefinition struct {
	Code     string        `yaml:"code" json:"code" validate:"required"`
	Name     string        `yaml:"name" json:"name,omitempty"`
	Type     elements.Type `yaml:"type" json:"type" validate:"required,oneof=STRING NUMBER DATE MAP DOCUMENT PRINCIPAL"`
	Required bool          `yaml:"required" json:"required"`
	Multiple bool          `yaml:"multiple" json:"multiple"`

	Min *float64 `yaml:"min" json:"min,omitempty"`
	Max *float64 `yaml:"max" json:"max,omitempty"`

	MinLength *int   `yaml:"minLength" json:"minLength,omitempty" validate:"omitempty,gte=0"`
	MaxLength *int   `yaml:"maxLength" json:"maxLength,omitempty" validate:"omitempty,gte=0"`
	Pattern   string `yaml:"pattern" json:"pattern,omitempty" validate:"omitempty,regexp"`

	MinDate string `yaml:"minDate" json:"minDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MaxDate string `yaml:"maxDate" json:"maxDate,omitempty" validate:"omitempty,datetime=2006-01-02"`

	ContentTypes   []string `yaml:"contentTypes" json:"contentTypes,omitempty" validate:"dive,required"`
	PrincipalTypes []string `yaml:"principalTypes" json:"principalTypes,omitempty" validate:"dive,oneof=USER APPLICATION SYSTEM"`

	pattern *regexp.Regexp
	minDate *civil.Date
	maxDate *civil.Date
}

type Form struct {
	Code     string              `yaml:"code" json:"code" validate:"required"`
	Name     string              `yaml:"name" json:"name,omitempty"`
	Elements []ElementDefinition `yaml:"elements" json:"elements" validate:"required,min=1,unique=Code,dive"`
}

type Config struct {
	Forms []Form `yaml:"forms" validate:"unique=Code,dive"`
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("regexp", validateRegexp)
}

func validateRegexp(fl validator.FieldLevel) bool {
	_, err := regexp.Compile(fl.Field().String())
	return err == nil
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse form definitions: %w", err)
	}

	err = configValidate.Struct(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid form definitions: %w", err)
	}

	for fidx := range cfg.Forms {
		for eidx := range cfg.Forms[fidx].Elements {
			ed := &cfg.Forms[fidx].Elements[eidx]
			if err = ed.compile(); err != nil {
				return nil, fmt.Errorf("invalid definition of %s.%s: %w", cfg.Forms[fidx].Code, ed.Code, err)
			}
		}
	}

	return cfg, nil
}

func (ed *ElementDefinition) compile() error {
	var err error

	if ed.Min != nil && ed.Max != nil && *ed.Min > *ed.Max {
		return fmt.Errorf("min %v is greater than max %v", *ed.Min, *ed.Max)
	}

	if ed.MinLength != nil && ed.MaxLength != nil && *ed.MinLength > *ed.MaxLength {
		return fmt.Errorf("minLength %d is greater than maxLength %d", *ed.MinLength, *ed.MaxLength)
	}

	if ed.Pattern != "" {
		ed.pattern, err = regexp.Compile(ed.Pattern)
		if err != nil {
			return err
		}
	}

	if ed.MinDate != "" {
		d, err := civil.ParseDate(ed.MinDate)
		if err != nil {
			return err
		}
		ed.minDate = &d
	}

	if ed.MaxDate != "" {
		d, err := civil.ParseDate(ed.MaxDate)
		if err != nil {
			return err
		}
		ed.maxDate = &d
	}

	if ed.minDate != nil && ed.maxDate != nil && ed.maxDate.Before(*ed.minDate) {
		return fmt.Errorf("minDate %s is after maxDate %s", ed.MinDate, ed.MaxDate)
	}

	return nil
}
