// Package varplugin provides the `var` tag namespace: named reads and writes
// (`var:with`), existence checks (`var:exists`), extraction of every stored
// variable into a block's context (`var:extract`), and the shorthand form in
// which any other method name is itself the variable name (`var:color`).
//
// A tag writes when it carries a value source and reads otherwise. Value
// sources are tried in order: non-empty block content, expanded and trimmed;
// then the first present value alias (`is`, `value`, `val`).
package varplugin
