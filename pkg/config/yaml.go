package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
)

// MarshalYAML renders the resolved values of config, each preceded by the
// comment declared on its field.
func MarshalYAML(config Config) ([]byte, error) {
	yamlCommentMap := yaml.CommentMap{}

	v := reflect.ValueOf(config)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		yamlTag := strings.Split(field.Tag.Get("yaml"), ",")[0]
		comment := field.Tag.Get("comment")
		if yamlTag == "" || yamlTag == "-" || comment == "" {
			continue
		}

		// omitted values have no node to attach a comment to
		if f := v.Field(i); f.Kind() == reflect.Ptr && f.IsNil() {
			continue
		}

		yamlCommentMap["$."+yamlTag] = []*yaml.Comment{
			yaml.HeadComment(" " + comment),
		}
	}

	data, err := yaml.MarshalWithOptions(config, yaml.WithComment(yamlCommentMap))
	if err != nil {
		return nil, fmt.Errorf("error marshaling YAML data: %w", err)
	}
	return data, nil
}
