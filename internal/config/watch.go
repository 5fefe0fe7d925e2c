package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/file"
)

// Watch reloads the deck at path whenever the file changes and hands the
// result (or the load error) to cb. cb runs on the watcher goroutine. The
// returned stop function ends watching.
func Watch(path string, cb func(*Deck, error)) (stop func() error, err error) {
	f := file.Provider(path)
	err = f.Watch(func(_ interface{}, werr error) {
		if werr != nil {
			cb(nil, fmt.Errorf("watching deck %s: %w", path, werr))
			return
		}
		deck, lerr := Load(path)
		if lerr == nil {
			lerr = deck.Validate()
		}
		cb(deck, lerr)
	})
	if err != nil {
		return nil, fmt.Errorf("watching deck %s: %w", path, err)
	}
	return f.Unwatch, nil
}
