package client

import (
	"net/url"
	"strings"
)

type RequestDecoratorFunc func([]string) []string

// Elements limits a validation to the given element codes. Values under other codes
// keep their validity.
func Elements(codes ...string) RequestDecoratorFunc {
	return func(params []string) []string {
		if len(codes) == 0 {
			return params
		}
		return append(params, "elements="+url.QueryEscape(strings.Join(codes, ",")))
	}
}

// Strict makes the service flag values stored under codes the form does not define
func Strict() RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, "strict=true")
	}
}
