// Package materialize builds typed configuration objects from classified key/value maps.
//
// A Schema is a static table binding wire keys to fields of T. Each binder is a typed accessor
// returning a pointer to the field, so bindings are checked by the compiler and validated once
// when the schema is built; no runtime type introspection is involved:
//
//	type GameConfig struct {
//	    Count   int64
//	    Name    string
//	    Enabled bool
//	    Level   Level
//	}
//
//	var gameSchema = materialize.MustSchema(
//	    materialize.Int("count", func(c *GameConfig) *int64 { return &c.Count }),
//	    materialize.String("name", func(c *GameConfig) *string { return &c.Name }),
//	    materialize.Bool("enabled", func(c *GameConfig) *bool { return &c.Enabled }),
//	    materialize.Struct("level", func(c *GameConfig) *Level { return &c.Level }),
//	)
//
//	cfg, err := gameSchema.Materialize(classified)
//
// Keys absent from the map leave the field at its zero value. Structured values are decoded with
// github.com/goccy/go-json. When *T implements Hook, OnMaterialized runs exactly once after every
// field was assigned.
//
// Scalar coercion rules:
//   - Int: integers, and the booleans spelled "0" or "1"
//   - Float: integers, floats, and the booleans spelled "0" or "1"
//   - String: any scalar (its wire text) and structured values (their JSON text)
//   - Bool: booleans only
//   - Struct: structured values only
package materialize
