package logging

import "time"

func String(key, value string) Field       { return Field{Key: key, Value: value} }
func Int(key string, value int) Field      { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field    { return Field{Key: key, Value: value} }
func Strings(key string, v []string) Field { return Field{Key: key, Value: v} }
func Any(key string, value any) Field      { return Field{Key: key, Value: value} }

// Duration logs d in milliseconds.
func Duration(key string, d time.Duration) Field {
	return Field{Key: key, Value: float64(d.Microseconds()) / 1000}
}

// Error logs err under "error"; a nil error is logged as null.
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error"}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Component(name string) Field { return String("component", name) }
func RunID(id string) Field       { return String("run_id", id) }
func TileType(name string) Field  { return String("tile_type", name) }
func SiteType(name string) Field  { return String("site_type", name) }
func Path(p string) Field         { return String("path", p) }
func Count(n int) Field           { return Int("count", n) }

// Latency is the duration of a timed operation.
func Latency(d time.Duration) Field { return Duration("duration_ms", d) }
