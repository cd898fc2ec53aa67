package config_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ajitpratap0/reclaim/pkg/config"
)

// ExampleDefaultConfig demonstrates the defaults: one shared pool per kind.
func ExampleDefaultConfig() {
	cfg := config.DefaultConfig()

	for _, p := range cfg.Pools {
		fmt.Printf("%s shared=%t\n", p.Kind, p.Shared)
	}
	fmt.Printf("Iterations: %d\n", cfg.Workload.Iterations)

	// Output:
	// vec shared=true
	// hashmap shared=true
	// hashset shared=true
	// string shared=true
	// deque shared=true
	// heap shared=true
	// buffer shared=true
	// Iterations: 10000
}

// ExampleConfig_Validate shows how invalid settings are reported.
func ExampleConfig_Validate() {
	cfg := config.DefaultConfig()
	cfg.Pools = append(cfg.Pools, config.PoolConfig{Name: "odd", Kind: "tree"})

	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
	}

	// Output:
	// config: unknown pool kind
}

// ExampleLoad demonstrates loading configuration from a YAML file
// with environment variable substitution.
func ExampleLoad() {
	dir, err := os.MkdirTemp("", "reclaim-config")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	os.Setenv("FRAME_POOL", "frames")
	defer os.Unsetenv("FRAME_POOL")

	path := filepath.Join(dir, "reclaim.yaml")
	yaml := `
pools:
  - name: ${FRAME_POOL}
    kind: buffer
    shared: true
    prewarm: 8
workload:
  workers: 4
  iterations: 100
  hold: 1ms
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Pools: %d\n", len(cfg.Pools))
	fmt.Printf("Pool: %s (%s, prewarm %d)\n", cfg.Pools[0].Name, cfg.Pools[0].Kind, cfg.Pools[0].Prewarm)
	fmt.Printf("Hold: %s\n", cfg.Workload.Hold)

	// Output:
	// Pools: 1
	// Pool: frames (buffer, prewarm 8)
	// Hold: 1ms
}
