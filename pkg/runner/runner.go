package runner

import (
	"os"
)

// Process-level facts resolved once at startup, used in startup banners
// and log context.
var (
	Hostname string
	Pwd      string
)

func init() {
	var err error
	Hostname, err = os.Hostname()
	if err != nil {
		Hostname = "unknown"
	}

	Pwd, _ = os.Getwd()
}
