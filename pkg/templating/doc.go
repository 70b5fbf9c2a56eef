/*
Package templating renders the turbofish pages. It wraps html/template with a
filesystem-backed template set, a function map for generating and linking
turbofish expressions from inside templates, and optional hot reloading of
the template directory via fsnotify.

Full pages live in "*.tmpl.html" files and shared fragments in "*.part.html"
files. An empty data directory can be seeded from an embedded default set with
SeedDefaults.
*/
package templating
