package frontier

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rohmanhakim/recipe-crawler/internal/blacklist"
	"github.com/rohmanhakim/recipe-crawler/pkg/urlutil"
)

// Store is the Redis-backed Frontier (C2): every URL's metadata plus
// the derived by-status and per-domain indexes, committed so
// invariants 1-5 of the URL-record data model always hold after any
// completed operation.
type Store struct {
	client    *redis.Client
	blacklist *blacklist.Blacklist
}

func NewStore(client *redis.Client, bl *blacklist.Blacklist) *Store {
	return &Store{client: client, blacklist: bl}
}

// Ping reports whether the backing Redis connection is reachable,
// satisfying httpapi.Pinger for the /readyz health check.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Add inserts a new URL record with status Waiting. Returns false
// without error if the URL is blacklisted or already known. Returns
// an error if the URL has no parseable registrable domain.
func (s *Store) Add(ctx context.Context, link string, parent *string, priority float64, remainingFollows int) (bool, error) {
	allowed, err := s.blacklist.IsAllowed(ctx, link)
	if err != nil {
		return false, fmt.Errorf("frontier add %q: %w", link, err)
	}
	if !allowed {
		return false, nil
	}

	exists, err := s.exists(ctx, link)
	if err != nil {
		return false, fmt.Errorf("frontier add %q: %w", link, err)
	}
	if exists {
		return false, nil
	}

	domain, err := urlutil.DomainOfString(link)
	if err != nil {
		return false, fmt.Errorf("frontier add %q: %w", link, err)
	}

	isDomainProcessing, err := s.client.SIsMember(ctx, keyProcessingDomains(), domain).Result()
	if err != nil {
		return false, fmt.Errorf("frontier add %q: %w", link, err)
	}

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, keyStatusToLinks(StatusWaiting), redis.Z{Score: priority, Member: link})
	pipe.HSet(ctx, keyLinkToStatus(), link, string(StatusWaiting))
	pipe.HSet(ctx, keyLinkToPriority(), link, priority)
	pipe.HSet(ctx, keyLinkToDomain(), link, domain)
	pipe.HSet(ctx, keyLinkToRemainingFollows(), link, remainingFollows)
	pipe.ZAdd(ctx, keyDomainToWaitingLinks(domain), redis.Z{Score: priority, Member: link})
	if !isDomainProcessing {
		pipe.SAdd(ctx, keyWaitingDomains(), domain)
	}
	if parent != nil {
		pipe.HSet(ctx, keyLinkToParent(), link, *parent)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("frontier add %q: %w", link, err)
	}

	return true, nil
}

func (s *Store) exists(ctx context.Context, link string) (bool, error) {
	return s.client.HExists(ctx, keyLinkToStatus(), link).Result()
}

func (s *Store) GetStatus(ctx context.Context, link string) (Status, error) {
	raw, err := s.client.HGet(ctx, keyLinkToStatus(), link).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("frontier get_status %q: %w", link, err)
	}
	status := Status(raw)
	switch status {
	case StatusWaiting, StatusProcessing, StatusDownloadFailed, StatusExtractionFailed, StatusParsingFailed, StatusProcessed:
		return status, nil
	default:
		return "", ErrUnknownStatus
	}
}

func (s *Store) GetPriority(ctx context.Context, link string) (float64, error) {
	v, err := s.client.HGet(ctx, keyLinkToPriority(), link).Float64()
	if err == redis.Nil {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("frontier get_priority %q: %w", link, err)
	}
	return v, nil
}

func (s *Store) GetDomain(ctx context.Context, link string) (string, error) {
	v, err := s.client.HGet(ctx, keyLinkToDomain(), link).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("frontier get_domain %q: %w", link, err)
	}
	return v, nil
}

func (s *Store) GetParent(ctx context.Context, link string) (string, error) {
	v, err := s.client.HGet(ctx, keyLinkToParent(), link).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("frontier get_parent %q: %w", link, err)
	}
	return v, nil
}

func (s *Store) GetRemainingFollows(ctx context.Context, link string) (int, error) {
	v, err := s.client.HGet(ctx, keyLinkToRemainingFollows(), link).Int()
	if err == redis.Nil {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("frontier get_remaining_follows %q: %w", link, err)
	}
	return v, nil
}

func (s *Store) SetContentSize(ctx context.Context, link string, size uint64) error {
	if err := s.client.HSet(ctx, keyLinkToContentSize(), link, size).Err(); err != nil {
		return fmt.Errorf("frontier set_content_size %q: %w", link, err)
	}
	return nil
}

// UpdateStatus performs the deliberately non-atomic two-step commit
// documented in spec.md §5: the first pipeline moves the URL between
// by-status sets and the per-domain waiting index; the second,
// separate pipeline reconciles processing_domains/waiting_domains
// using a read taken between the two commits. Do not collapse these
// into one transaction: the spec requires this exact ordering and
// tolerates the narrow inconsistency window it leaves.
func (s *Store) UpdateStatus(ctx context.Context, link string, status Status) error {
	previousStatus, err := s.GetStatus(ctx, link)
	if err != nil {
		return fmt.Errorf("frontier update_status %q: %w", link, err)
	}
	priority, err := s.GetPriority(ctx, link)
	if err != nil {
		return fmt.Errorf("frontier update_status %q: %w", link, err)
	}
	domain, err := s.GetDomain(ctx, link)
	if err != nil {
		return fmt.Errorf("frontier update_status %q: %w", link, err)
	}

	pipe := s.client.TxPipeline()
	pipe.ZRem(ctx, keyStatusToLinks(previousStatus), link)
	pipe.ZAdd(ctx, keyStatusToLinks(status), redis.Z{Score: priority, Member: link})
	pipe.HSet(ctx, keyLinkToStatus(), link, string(status))
	if status == StatusWaiting {
		pipe.ZAdd(ctx, keyDomainToWaitingLinks(domain), redis.Z{Score: priority, Member: link})
	}
	if previousStatus == StatusWaiting {
		pipe.ZRem(ctx, keyDomainToWaitingLinks(domain), link)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("frontier update_status %q: %w", link, err)
	}

	// Second, independent commit: waiting_domains/processing_domains
	// membership is reconciled from a fresh read, not atomically with
	// the first pipeline above.
	if status == StatusProcessing {
		pipe2 := s.client.TxPipeline()
		pipe2.SRem(ctx, keyWaitingDomains(), domain)
		pipe2.SAdd(ctx, keyProcessingDomains(), domain)
		if _, err := pipe2.Exec(ctx); err != nil {
			return fmt.Errorf("frontier update_status %q: %w", link, err)
		}
	}

	if previousStatus == StatusProcessing {
		if err := s.client.SRem(ctx, keyProcessingDomains(), domain).Err(); err != nil {
			return fmt.Errorf("frontier update_status %q: %w", link, err)
		}
		domainWaiting, err := s.isDomainWaiting(ctx, domain)
		if err != nil {
			return fmt.Errorf("frontier update_status %q: %w", link, err)
		}
		if domainWaiting {
			if err := s.client.SAdd(ctx, keyWaitingDomains(), domain).Err(); err != nil {
				return fmt.Errorf("frontier update_status %q: %w", link, err)
			}
		}
	}

	return nil
}

func (s *Store) isDomainWaiting(ctx context.Context, domain string) (bool, error) {
	n, err := s.client.Exists(ctx, keyDomainToWaitingLinks(domain)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ResetProcessingToWaiting is C9 Recovery: every URL currently
// Processing is moved back to Waiting. Must run to completion before
// the Scheduler's first tick.
func (s *Store) ResetProcessingToWaiting(ctx context.Context) error {
	links, err := s.client.ZRange(ctx, keyStatusToLinks(StatusProcessing), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("frontier reset_processing_to_waiting: %w", err)
	}
	for _, link := range links {
		if err := s.UpdateStatus(ctx, link, StatusWaiting); err != nil {
			return fmt.Errorf("frontier reset_processing_to_waiting %q: %w", link, err)
		}
	}
	return nil
}

// PollNext implements §4.8's poll_next(n): SPOP n domains from
// waiting_domains, pop the highest-priority URL from each, transition
// every returned URL Waiting→Processing, and return them. Fairness:
// no domain can be popped twice within one call, since SPOP removes
// members as it samples them.
func (s *Store) PollNext(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	domains, err := s.client.SPopN(ctx, keyWaitingDomains(), int64(n)).Result()
	if err != nil {
		return nil, fmt.Errorf("frontier poll_next: %w", err)
	}

	var links []string
	for _, domain := range domains {
		entries, err := s.client.ZPopMax(ctx, keyDomainToWaitingLinks(domain), 1).Result()
		if err != nil {
			return nil, fmt.Errorf("frontier poll_next domain %q: %w", domain, err)
		}
		if len(entries) == 0 {
			continue
		}
		link, ok := entries[0].Member.(string)
		if !ok {
			continue
		}
		links = append(links, link)
	}

	for _, link := range links {
		if err := s.UpdateStatus(ctx, link, StatusProcessing); err != nil {
			return nil, fmt.Errorf("frontier poll_next transition %q: %w", link, err)
		}
	}

	return links, nil
}

// Stats aggregates the supplemented read-side figures (total content
// size, per-status counts, domain counts) that spec.md never rolls up
// but the original's link.rs exposes for statistics write-back.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{LinksWithStatus: make(map[Status]int64, 6)}

	for _, status := range []Status{StatusWaiting, StatusProcessing, StatusDownloadFailed, StatusExtractionFailed, StatusParsingFailed, StatusProcessed} {
		count, err := s.client.ZCard(ctx, keyStatusToLinks(status)).Result()
		if err != nil {
			return Stats{}, fmt.Errorf("frontier stats links_with_status %q: %w", status, err)
		}
		stats.LinksWithStatus[status] = count
	}

	sizes, err := s.client.HVals(ctx, keyLinkToContentSize()).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("frontier stats total_content_size: %w", err)
	}
	for _, v := range sizes {
		var size uint64
		if _, err := fmt.Sscanf(v, "%d", &size); err == nil {
			stats.TotalContentSize += size
		}
	}

	processingDomains, err := s.client.SCard(ctx, keyProcessingDomains()).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("frontier stats processing_domains: %w", err)
	}
	waitingDomains, err := s.client.SCard(ctx, keyWaitingDomains()).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("frontier stats waiting_domains: %w", err)
	}
	stats.ProcessingDomains = processingDomains
	stats.WaitingDomains = waitingDomains
	stats.DomainsInSystem = processingDomains + waitingDomains

	return stats, nil
}
