package rc_test

import (
	"fmt"

	rc "github.com/0xalexb/hjarta-rc"
	"github.com/0xalexb/hjarta-rc/materialize"
	"github.com/0xalexb/hjarta-rc/source/file"

	"go.uber.org/fx"
)

// Reward is a structured parameter.
type Reward struct {
	Item   string `json:"item"`
	Amount int    `json:"amount"`
}

// ShopConfig is materialized from decomposed parameters.
type ShopConfig struct {
	Count  int64
	Name   string
	Sale   bool
	Reward Reward
	Label  string
}

// OnMaterialized derives Label once every field is set.
func (c *ShopConfig) OnMaterialized() error {
	c.Label = fmt.Sprintf("%s x%d", c.Reward.Item, c.Reward.Amount)

	return nil
}

//nolint:gochecknoglobals // example schema.
var shopSchema = materialize.MustSchema(
	materialize.Int("count", func(c *ShopConfig) *int64 { return &c.Count }),
	materialize.String("name", func(c *ShopConfig) *string { return &c.Name }),
	materialize.Bool("sale", func(c *ShopConfig) *bool { return &c.Sale }),
	materialize.Struct("reward", func(c *ShopConfig) *Reward { return &c.Reward }),
)

// Example_decomposedConfig resolves a typed config from a parameter file with settings read from YAML.
func Example_decomposedConfig() {
	var cfg *ShopConfig

	app := rc.NewApp(
		rc.WithLogLevel("error"),
		rc.WithSource(file.New("testdata/params.yaml")),
		rc.WithSettingsFile("testdata/rc.yaml", "rc"),
		rc.WithModules(
			rc.ProvideConfig(shopSchema),
			fx.Invoke(func(c *ShopConfig) { cfg = c }),
		),
	)

	err := app.Start()
	if err != nil {
		fmt.Printf("Error starting app: %v\n", err)

		return
	}

	defer func() { _ = app.Stop() }()

	fmt.Printf("count=%d name=%s sale=%t\n", cfg.Count, cfg.Name, cfg.Sale)
	fmt.Println(cfg.Label)
	// Output:
	// count=5 name=abc sale=true
	// gem x3
}
