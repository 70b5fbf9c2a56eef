/*
Package turbofish generates, renders, and parses "turbofish" style generic type
annotations such as Vec::<Option::<i32>>.

An Expression is a small immutable tree of TypeTokens. A Generator builds random
expressions from a fixed vocabulary using a caller-supplied random Source, so
generation is reproducible under a fixed seed and needs no shared state. Render
serializes a tree to text and Parse reads that text back, which lets a rendered
expression travel through a URL and be reconstructed exactly.
*/
package turbofish
