package config

import (
	"time"

	"github.com/spf13/viper"
)

// orDefault reads key with get, falling back to def when the key is absent
// from the file and the environment.
func orDefault[T any](v *viper.Viper, key string, def T, get func(string) T) T {
	if !v.IsSet(key) {
		return def
	}
	return get(key)
}

func getStringOrDefault(v *viper.Viper, key, def string) string {
	return orDefault(v, key, def, v.GetString)
}

func getIntOrDefault(v *viper.Viper, key string, def int) int {
	return orDefault(v, key, def, v.GetInt)
}

func getInt64OrDefault(v *viper.Viper, key string, def int64) int64 {
	return orDefault(v, key, def, v.GetInt64)
}

// getUint32OrDefault treats negative values as unset.
func getUint32OrDefault(v *viper.Viper, key string, def uint32) uint32 {
	n := getIntOrDefault(v, key, int(def))
	if n < 0 {
		return def
	}
	return uint32(n)
}

func getBoolOrDefault(v *viper.Viper, key string, def bool) bool {
	return orDefault(v, key, def, v.GetBool)
}

func getFloat64OrDefault(v *viper.Viper, key string, def float64) float64 {
	return orDefault(v, key, def, v.GetFloat64)
}

func getDurationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	return orDefault(v, key, def, v.GetDuration)
}

// getStringSliceOrDefault also falls back when the list is set but empty.
func getStringSliceOrDefault(v *viper.Viper, key string, def []string) []string {
	if s := orDefault(v, key, []string(nil), v.GetStringSlice); len(s) > 0 {
		return s
	}
	return def
}
