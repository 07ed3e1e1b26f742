// Package configs provides the embedded configuration template for
// cortado. Embedding at build time keeps the template available in
// every distribution, source builds and binary releases alike.
//
// The template is written by 'cortado config init' to
// <data_dir>/cortado.yaml; see internal/config for the load order.
package configs

import _ "embed"

// ConfigTemplate is the annotated starter configuration written by
// 'cortado config init'. Every key is commented or set to its default,
// so a fresh file changes nothing until edited.
//
//go:embed cortado.example.yaml
var ConfigTemplate string
