// Package engine is the instrumented front end of the expression engine.
//
// An Engine bundles what a host needs to run JME: a scope with the
// standard library, a store of saved rulesets and variable sets, and the
// limits from config.Settings. Every operation gets a fresh run id that
// appears in its logs, its trace span and any record it saves.
//
//	eng, err := engine.New(
//	    engine.WithSettings(settings),
//	    engine.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	val, err := eng.Evaluate(ctx, "sqrt(x^2 + y^2)", map[string]any{"x": 3, "y": 4})
//	fmt.Println(val) // 5
//
//	simp, err := eng.Simplify(ctx, "2 + 3 + x", "all")
//	fmt.Println(simp) // x+5
//
// # Stored definitions
//
// SaveRuleset makes a ruleset available to Simplify under its name, and
// persists it so engines opened later on the same store see it too.
// SaveVariables and RunVariables do the same for variable sets.
//
// # Observability
//
// Metrics and tracing follow the metrics and tracing settings and use the
// global OpenTelemetry providers. WithMetricsRecorder and WithSpanManager
// substitute other implementations.
package engine
