// launchdash serves an interactive dashboard of historical rocket launches.
//
// Usage:
//
//	launchdash serve  --config config.yaml
//	launchdash query  --config config.yaml --site ALL --min 0 --max 10000 [--json]
//	launchdash import --csv data.csv --db launches.db [--table launches] [--lenient]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
