package frontier

import "fmt"

// Redis key schema, authoritative per spec.md §6.

func keyStatusToLinks(status Status) string {
	return fmt.Sprintf("link:links_by_status:%s", status)
}

func keyDomainToWaitingLinks(domain string) string {
	return fmt.Sprintf("link:waiting_links_by_domain:%s", domain)
}

func keyProcessingDomains() string {
	return "link:processing_domains"
}

func keyWaitingDomains() string {
	return "link:waiting_domains"
}

func keyLinkToStatus() string {
	return "link:status"
}

func keyLinkToPriority() string {
	return "link:priority"
}

func keyLinkToDomain() string {
	return "link:domain"
}

func keyLinkToParent() string {
	return "link:parent"
}

func keyLinkToRemainingFollows() string {
	return "link:remaining_follows"
}

func keyLinkToContentSize() string {
	return "link:content_size"
}
