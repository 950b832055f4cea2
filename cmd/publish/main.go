// publish renders a markdown draft as a styled essay in essays/ and rebuilds essays.json.
//
//	usage:
//	   publish drafts/my-essay.md
//	   publish drafts/my-essay.md "Custom Title"
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dakshmehta/site/essay"
	"github.com/dakshmehta/site/observability/logger"
	"github.com/dakshmehta/site/publish"
	"gitlab.com/efronlicht/enve"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: publish <markdown-file> [title]")
		fmt.Println("Example: publish drafts/my-essay.md")
		fmt.Println(`         publish drafts/my-essay.md "My Custom Title"`)
		os.Exit(1)
	}
	src := os.Args[1]
	var title string
	if len(os.Args) >= 3 {
		title = os.Args[2]
	}
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("Error: File '%s' not found\n", src)
		os.Exit(1)
	}
	log := logger.New("publish")
	defer log.Sync()

	res, err := publish.Publish(src, publish.Options{
		Title:  title,
		Dir:    enve.StringOr("ESSAYS_DIR", essay.DefaultDir),
		Index:  enve.StringOr("ESSAYS_INDEX", essay.DefaultIndex),
		Logger: log,
	})
	if err != nil {
		log.Fatal("failed to publish", zap.String("src", src), zap.Error(err))
	}
	fmt.Printf("Created: %s\n", res.Path)
	fmt.Printf("Updated %s with %d essays\n", res.Index.Index, len(res.Index.Entries))
}
