/*
Copyright © 2026 the geostrip authors.
This file is part of geostrip.

geostrip is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

geostrip is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with geostrip.  If not, see <http://www.gnu.org/licenses/>.
*/

package geostriputil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	geostrip "github.com/ojonasson/geo-legacy-strip"
)

// RunFiles transcodes the given files, up to jobs of them concurrently.
// Each file is an independent unit of work: when keepGoing is set, a
// failure is logged and the remaining files are still processed;
// otherwise the first failure stops the scheduling of further files.
// Files already in flight always run to completion, so every file ends
// up either fully transcoded or untouched.
func RunFiles(files []string, o geostrip.Options, jobs int, keepGoing bool) error {
	if jobs < 1 {
		jobs = 1
	}

	var (
		mx     sync.Mutex
		failed int
	)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(jobs)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log := logrus.WithField("file", file)
			log.Info("transcoding")
			start := time.Now()
			if err := geostrip.Strip(file, o); err != nil {
				if !keepGoing {
					return err
				}
				log.WithError(err).Error("transcoding failed")
				mx.Lock()
				failed++
				mx.Unlock()
				return nil
			}
			log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("geostrip: %d of %d files failed", failed, len(files))
	}
	return nil
}
