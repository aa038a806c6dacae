// Package schema builds the pipeline JSON schema from task registry definitions.
//
// Generation is a pure function of the task list: every task becomes a schema
// fragment describing its "task:" reference and "inputs:" block, the fragments and
// the sorted task identifiers are placed into the embedded pipeline grammar
// template, and the result is serialized with two-space indentation.
//
// The template is parsed once and never mutated. Rendering works on a copy, so a
// single Generator is safe for concurrent use.
package schema
