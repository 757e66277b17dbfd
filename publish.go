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

// This file contains the atomic publisher: the output container is built
// in a scratch directory and only a complete, closed file is copied to
// its final path. The scratch directory is released on every exit path.

package geostrip

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// publishRetryWindow bounds how long a failing publish copy is retried.
// Output directories are often on shared filesystems where short write
// stalls are routine.
const publishRetryWindow = 15 * time.Second

// publish invokes build with a path inside a fresh scratch directory
// (under the given base name) and, only if build succeeds, copies the
// finished file to finalPath. finalPath is never touched before the
// build is complete.
func publish(name, finalPath string, build func(scratch string) error) error {
	dir, err := os.MkdirTemp("", "geostrip")
	if err != nil {
		return fmt.Errorf("geostrip: creating scratch directory: %v", err)
	}
	defer os.RemoveAll(dir)

	scratch := filepath.Join(dir, name)
	if err := build(scratch); err != nil {
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = publishRetryWindow
	return backoff.RetryNotify(
		func() error { return copyFile(scratch, finalPath) },
		b,
		func(err error, d time.Duration) {
			log.Printf("%v: retrying in %v", err, d)
		},
	)
}

// copyFile copies src to dst in one pass, carrying over the source's
// mode and modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("geostrip: publishing %s: %v", dst, err)
	}
	defer in.Close()
	fi, err := in.Stat()
	if err != nil {
		return fmt.Errorf("geostrip: publishing %s: %v", dst, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("geostrip: publishing %s: %v", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("geostrip: publishing %s: %v", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("geostrip: publishing %s: %v", dst, err)
	}
	if err := os.Chmod(dst, fi.Mode()); err != nil {
		return fmt.Errorf("geostrip: publishing %s: %v", dst, err)
	}
	return os.Chtimes(dst, time.Now(), fi.ModTime())
}
