package whoisheuristic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openrdap/rdap/bootstrap"
	"github.com/stretchr/testify/require"
)

// stubFailingBootstrap reports every TLD as unknown to RDAP, regardless of
// query, so tests can exercise the "not supported" branch of Query without
// making a real bootstrap registry lookup.
type stubFailingBootstrap struct{}

func (*stubFailingBootstrap) Lookup(*bootstrap.Question) (*bootstrap.Answer, error) {
	return nil, errors.New("not found")
}

func TestDefaultClient_UsesHintHostDirectly(t *testing.T) {
	t.Parallel()

	var gotHost string
	c := &DefaultClient{
		Fetch: func(_ context.Context, _, host string) (string, error) {
			gotHost = host
			return "Domain Name: EXAMPLE.COM\n", nil
		},
	}
	node, err := c.Query(context.Background(), "example.com", QueryOptions{Host: "whois.verisign-grs.com", Timeout: time.Second})
	require.NoError(t, err)
	require.Equal(t, "whois.verisign-grs.com", gotHost)
	require.Contains(t, node.Raw, "EXAMPLE.COM")
}

func TestDefaultClient_ChasesRegistrarReferral(t *testing.T) {
	t.Parallel()

	c := &DefaultClient{
		Fetch: func(_ context.Context, _, host string) (string, error) {
			if host == "whois.registrar.example" {
				return "Domain Name: EXAMPLE.COM\nRegistrar: Example Inc\n", nil
			}
			return "Domain Name: EXAMPLE.COM\nRegistrar WHOIS Server: whois.registrar.example\n", nil
		},
	}
	node, err := c.Query(context.Background(), "example.com", QueryOptions{Host: "whois.verisign-grs.com"})
	require.NoError(t, err)
	require.Len(t, node.Referred, 1)
	require.Contains(t, node.Referred["whois.registrar.example"].Raw, "Example Inc")
}

func TestDefaultClient_NoHintAndUnknownToRDAPReportsUnsupported(t *testing.T) {
	t.Parallel()

	c := &DefaultClient{
		Fetch: func(_ context.Context, query, host string) (string, error) {
			return "", errors.New("no such host")
		},
		Bootstrap: &stubFailingBootstrap{},
	}
	_, err := c.Query(context.Background(), "foo.zzz", QueryOptions{})
	require.Error(t, err)
	require.Equal(t, classTLDUnsupported, classifyWhoisError(err))
}

func TestDefaultClient_AllCandidatesEmptyReportsNoWhoisData(t *testing.T) {
	t.Parallel()

	c := &DefaultClient{
		Fetch: func(_ context.Context, _, _ string) (string, error) { return "", nil },
	}
	_, err := c.Query(context.Background(), "example.com", QueryOptions{Host: "whois.verisign-grs.com"})
	require.Error(t, err)
	require.Equal(t, classNoWhois, classifyWhoisError(err))
}
