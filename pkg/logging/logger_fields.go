package logging

import (
	"time"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Reasoner field helpers

func Component(name string) Field {
	return String("component", name)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func Phase(name string) Field {
	return String("phase", name)
}

func ClassID(id entity.ID) Field {
	return Field{Key: "class_id", Value: uint32(id)}
}

func RoleID(id entity.ID) Field {
	return Field{Key: "role_id", Value: uint32(id)}
}

func Count(n int) Field {
	return Int("count", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}
