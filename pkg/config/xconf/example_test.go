package xconf_test

import (
	"fmt"

	"github.com/omeyang/xthreadpool/pkg/config/xconf"
)

func ExampleLoadBytes() {
	type poolConfig struct {
		Workers int    `koanf:"workers"`
		Name    string `koanf:"name"`
	}

	cfg, err := xconf.LoadBytes([]byte("pool:\n  workers: 4\n"), xconf.FormatYAML)
	if err != nil {
		panic(err)
	}

	pc := poolConfig{Workers: 1, Name: "default"}
	if err := cfg.Unmarshal("pool", &pc); err != nil {
		panic(err)
	}
	fmt.Println(pc.Workers, pc.Name)
	// Output:
	// 4 default
}
