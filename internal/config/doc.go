// Package config holds the per-connection settings of a virsh façade.
//
// A Config can be loaded from YAML (LoadFromFile) and overlaid with values
// from dotenv files and the environment (LoadFromEnv). At runtime the
// settings are accessed through Properties, a key/value store with typed
// accessors, defaults, and boolean coercion:
//
//	props := config.NewProperties(config.Config{URI: "qemu:///system"})
//	_ = props.Set(config.KeyDebug, "yes") // stored as true
//	v, err := props.Get("missing")         // *NotFoundError
//
// Keys listed in Config.Extra extend the recognized set for that store only.
package config
