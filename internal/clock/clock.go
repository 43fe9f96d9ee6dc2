package clock

import "time"

// Clock di-inject ke service supaya stempel waktu (mis. actual delivery)
// bisa dites deterministik.
type Clock interface {
	Now() time.Time
}

type system struct{}

func System() Clock { return system{} }

func (system) Now() time.Time { return time.Now().UTC() }

type fixed struct{ t time.Time }

// Fixed selalu mengembalikan instant yang sama (untuk test).
func Fixed(t time.Time) Clock { return fixed{t: t.UTC()} }

func (f fixed) Now() time.Time { return f.t }
