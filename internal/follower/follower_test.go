package follower_test

import (
	"reflect"
	"testing"

	"github.com/rohmanhakim/recipe-crawler/internal/follower"
)

func TestFollow_ResolvesRootRelativeHref(t *testing.T) {
	body := []byte(`<a href="/recipe/soup">Soup</a>`)
	got := follower.Follow(body, "https://www.example.com/index")
	want := []string{"https://www.example.com/recipe/soup"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFollow_ResolvesRootRelativeHrefAsHTTPSRegardlessOfSourceScheme(t *testing.T) {
	body := []byte(`<a href="/recipe/soup">Soup</a>`)
	got := follower.Follow(body, "http://www.example.com/index")
	want := []string{"https://www.example.com/recipe/soup"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFollow_KeepsAbsoluteHref(t *testing.T) {
	body := []byte(`<a href="https://other.com/recipe/soup">Soup</a>`)
	got := follower.Follow(body, "https://www.example.com/index")
	want := []string{"https://other.com/recipe/soup"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFollow_DropsIntraPageAnchor(t *testing.T) {
	body := []byte(`<a href="https://www.example.com/index#section">Jump</a>`)
	got := follower.Follow(body, "https://www.example.com/index")
	if len(got) != 0 {
		t.Errorf("expected no links, got %v", got)
	}
}

func TestFollow_DropsNonURLHref(t *testing.T) {
	body := []byte(`<a href="javascript:void(0)">Click</a>`)
	got := follower.Follow(body, "https://www.example.com/index")
	if len(got) != 0 {
		t.Errorf("expected no links for a non-absolute href, got %v", got)
	}
}

func TestFollow_StripsWprmPrintSuffix(t *testing.T) {
	body := []byte(`<a href="https://www.example.com/recipe/soup/wprm_print">Print</a>`)
	got := follower.Follow(body, "https://other.com/index")
	want := []string{"https://www.example.com/recipe/soup"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFollow_DeduplicatesByStringEquality(t *testing.T) {
	body := []byte(`<a href="https://other.com/a">A</a><a href="https://other.com/a">A again</a>`)
	got := follower.Follow(body, "https://example.com/index")
	want := []string{"https://other.com/a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFollow_MultipleAnchorsPreserveOrder(t *testing.T) {
	body := []byte(`<a href="https://other.com/a">A</a><a href="https://other.com/b">B</a>`)
	got := follower.Follow(body, "https://example.com/index")
	want := []string{"https://other.com/a", "https://other.com/b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFollow_InvalidSourceURLReturnsNil(t *testing.T) {
	body := []byte(`<a href="/recipe/soup">Soup</a>`)
	got := follower.Follow(body, "::not a url::")
	if got != nil {
		t.Errorf("expected nil for an unparsable source URL, got %v", got)
	}
}
