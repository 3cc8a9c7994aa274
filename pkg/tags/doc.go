// Package tags implements the tag layer that sits in front of the template
// renderer. It recognises `{{ namespace:method param="value" }}` invocations
// for registered namespaces, pairs them with `{{ /namespace:method }}` closing
// markers, and routes each invocation to a plugin either by method name or,
// when the plugin declares one, through a catch-all fallback that receives the
// literal method name.
//
// Everything that is not a registered tag is returned as text for the
// template renderer to expand.
package tags
