package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
}

// the portal publishes results on german time, keep every timestamp
// we log or persist in the same zone regardless of where we run.
func Now() time.Time {
	return time.Now().In(Location)
}

// Stamp formats a time the way it is shown to users.
func Stamp(t time.Time) string {
	return t.In(Location).Format("02.01.2006 15:04")
}
