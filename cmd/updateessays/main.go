// updateessays rebuilds essays.json from the HTML pages in essays/.
//
//	usage:
//	   updateessays
//
// ESSAYS_DIR and ESSAYS_INDEX override the default paths.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/dakshmehta/site/essay"
	"github.com/dakshmehta/site/observability/logger"
	"gitlab.com/efronlicht/enve"
	"go.uber.org/zap"
)

func main() {
	log := logger.New("updateessays")
	defer log.Sync()
	res, err := essay.Build(essay.Options{
		Dir:    enve.StringOr("ESSAYS_DIR", essay.DefaultDir),
		Index:  enve.StringOr("ESSAYS_INDEX", essay.DefaultIndex),
		Logger: log,
	})
	if err != nil {
		log.Fatal("failed to update index", zap.Error(err))
	}
	fmt.Printf("Updated %s with %d essays\n", filepath.Base(res.Index), len(res.Entries))
}
