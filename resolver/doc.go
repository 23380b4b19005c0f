// Package resolver resolves remote configuration into typed values.
//
// A load runs Initialize, FetchAndActivate, then the mode branch:
//   - Single: the parameter named by Settings.ParameterName holds the whole config as JSON,
//     optionally compressed. It is decoded into T.
//   - Decomposed: every remote entry is classified, then a materialize.Schema builds T.
//
// Resolve blocks and returns the result. Load runs the same pipeline in a goroutine and calls
// exactly one of its callbacks. Every failure is a *configerror.Error.
//
//	res, err := resolver.New(coordinator)
//	cfg, err := resolver.Resolve(ctx, res, s, gameSchema)
package resolver
