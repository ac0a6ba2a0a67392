package blacklist

/*
Blacklist (C1) - rejects URLs whose textual form contains any
configured substring. Backed by a single Redis set; membership is
case-sensitive, no regex, additive-only for the core's purposes.
*/

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

const blacklistKey = "blacklist"

// Blacklist checks whether a URL is allowed to be submitted or
// followed, backed by a Redis set of disallowed substrings.
type Blacklist struct {
	client *redis.Client
}

func New(client *redis.Client) *Blacklist {
	return &Blacklist{client: client}
}

// Add adds a substring to the blacklist. Returns true if it was newly
// added, false if it already existed.
func (b *Blacklist) Add(ctx context.Context, word string) (bool, error) {
	n, err := b.client.SAdd(ctx, blacklistKey, word).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist add %q: %w", word, err)
	}
	return n > 0, nil
}

// IsAllowed returns false iff any blacklisted substring occurs in
// link, case-sensitive.
func (b *Blacklist) IsAllowed(ctx context.Context, link string) (bool, error) {
	words, err := b.client.SMembers(ctx, blacklistKey).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist members: %w", err)
	}

	for _, word := range words {
		if strings.Contains(link, word) {
			return false, nil
		}
	}
	return true, nil
}

// LoadFile bulk-loads newline-delimited substrings from a file into
// the blacklist at startup. This is a supplemented admin path: the
// original exposes `link_blacklist::add` one word at a time from an
// operator endpoint the crawler's link-processing core never calls
// itself; here it is a one-shot `--blacklist-file` loader instead.
func (b *Blacklist) LoadFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open blacklist file %q: %w", path, err)
	}
	defer f.Close()

	added := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		ok, err := b.Add(ctx, word)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("scan blacklist file %q: %w", path, err)
	}
	return added, nil
}
