// Package variables computes sets of interdependent JME variable
// definitions.
//
// Each definition is compiled once; its free names are its dependencies.
// Computing a variable first computes every dependency not already bound,
// tracking the chain of variables in progress so that a cycle is reported
// with the full path:
//
//	set, err := variables.Compile(variables.Document{
//		Variables: map[string]string{"a": "b+1", "b": "2"},
//	}, scope)
//	res, err := set.MakeAll(jme.NewEvaluator(), scope)
//	// res.Values["a"] is 3
//
// A Document may also carry a condition on the values and custom functions
// written in JME. Documents are read from YAML with ParseDocument.
package variables
