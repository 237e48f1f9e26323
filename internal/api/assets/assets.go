// Package assets holds static files baked into the server binary.
package assets

import _ "embed"

//go:embed amygdala.gif
var AmygdalaGIF []byte
