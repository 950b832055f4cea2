// buildfeed writes feed.xml, an RSS feed of the essays in essays/.
// GUIDs and publication dates are cached in .feedcache/ and survive edits to an essay.
//
//	usage:
//	   buildfeed
//
// ESSAYS_DIR, FEED_PATH, FEED_CACHE_DIR and SITE_URL override the defaults.
package main

import (
	"fmt"

	"github.com/dakshmehta/site/essay"
	"github.com/dakshmehta/site/feed"
	"github.com/dakshmehta/site/observability/logger"
	"gitlab.com/efronlicht/enve"
	"go.uber.org/zap"
)

func main() {
	log := logger.New("buildfeed")
	defer log.Sync()
	opts := feed.Options{
		Dir:      enve.StringOr("ESSAYS_DIR", essay.DefaultDir),
		Out:      enve.StringOr("FEED_PATH", feed.DefaultOut),
		CacheDir: enve.StringOr("FEED_CACHE_DIR", feed.DefaultCacheDir),
		SiteURL:  enve.StringOr("SITE_URL", feed.DefaultSiteURL),
		Logger:   log,
	}
	res, err := feed.Build(opts)
	if err != nil {
		log.Fatal("failed to build feed", zap.Error(err))
	}
	if !res.Written {
		fmt.Printf("%s is up to date (%d essays)\n", opts.Out, len(res.Items))
		return
	}
	fmt.Printf("Updated %s with %d essays (%d changed)\n", opts.Out, len(res.Items), res.Changed)
}
