package gitrepo

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	gitSuffixConstant                   = ".git"
	pathSeparatorConstant               = "/"
	schemeSeparatorConstant             = "://"
	scpPathDelimiterConstant            = ":"
	gitUserPrefixConstant               = "git@"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	requiredValueMessageConstant        = "value required"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	unknownProtocolMessageConstant      = "unsupported remote protocol"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolHTTP  RemoteProtocol = RemoteProtocol("http")
)

var (
	schemeRemotePattern = regexp.MustCompile(`^(ssh|git\+ssh|https?)://(?:[^@/]+@)?([^/:]+)(?::\d+)?/(.+?)(?:\.git)?/*$`)
	scpRemotePattern    = regexp.MustCompile(`^(?:[^@/:]+@)?([^/:]+):/?(.+?)(?:\.git)?/*$`)
)

var schemeProtocols = map[string]RemoteProtocol{
	"ssh":     RemoteProtocolSSH,
	"git+ssh": RemoteProtocolSSH,
	"https":   RemoteProtocolHTTPS,
	"http":    RemoteProtocolHTTP,
}

// RemoteURL represents a structured git remote URL.
type RemoteURL struct {
	Protocol RemoteProtocol
	Host     string
	Path     string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// UnsupportedProtocolError indicates the provided protocol cannot be formatted.
type UnsupportedProtocolError struct {
	Protocol RemoteProtocol
}

// Error describes the unsupported protocol.
func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, protocolError.Protocol, unknownProtocolMessageConstant)
}

// ParseRemoteURL converts git@host:path, ssh://, and http(s):// remotes into a structured representation.
// The host is lowercased and the .git suffix is dropped from the path.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	if strings.Contains(trimmedRemote, schemeSeparatorConstant) {
		matches := schemeRemotePattern.FindStringSubmatch(trimmedRemote)
		if matches == nil {
			return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
		}
		return RemoteURL{Protocol: schemeProtocols[matches[1]], Host: strings.ToLower(matches[2]), Path: matches[3]}, nil
	}

	matches := scpRemotePattern.FindStringSubmatch(trimmedRemote)
	if matches == nil {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	return RemoteURL{Protocol: RemoteProtocolSSH, Host: strings.ToLower(matches[1]), Path: matches[2]}, nil
}

// FormatRemoteURL creates a clonable remote URL from a structured representation.
func FormatRemoteURL(remote RemoteURL) (string, error) {
	if validationError := validateRemoteURL(remote); validationError != nil {
		return "", validationError
	}

	switch remote.Protocol {
	case RemoteProtocolSSH:
		return gitUserPrefixConstant + remote.Host + scpPathDelimiterConstant + remote.Path + gitSuffixConstant, nil
	case RemoteProtocolHTTPS, RemoteProtocolHTTP:
		return string(remote.Protocol) + schemeSeparatorConstant + remote.Host + pathSeparatorConstant + remote.Path + gitSuffixConstant, nil
	default:
		return "", UnsupportedProtocolError{Protocol: remote.Protocol}
	}
}

// FormatBrowsingURL renders the web address of the repository. SSH remotes are served over https.
func FormatBrowsingURL(remote RemoteURL) (string, error) {
	if validationError := validateRemoteURL(remote); validationError != nil {
		return "", validationError
	}

	switch remote.Protocol {
	case RemoteProtocolSSH, RemoteProtocolHTTPS:
		return string(RemoteProtocolHTTPS) + schemeSeparatorConstant + remote.Host + pathSeparatorConstant + remote.Path, nil
	case RemoteProtocolHTTP:
		return string(RemoteProtocolHTTP) + schemeSeparatorConstant + remote.Host + pathSeparatorConstant + remote.Path, nil
	default:
		return "", UnsupportedProtocolError{Protocol: remote.Protocol}
	}
}

// BrowsingURL parses a remote and returns its web address, e.g. git@github.com:org/repo.git becomes https://github.com/org/repo.
func BrowsingURL(remote string) (string, error) {
	parsedRemote, parseError := ParseRemoteURL(remote)
	if parseError != nil {
		return "", parseError
	}
	return FormatBrowsingURL(parsedRemote)
}

// EquivalentRemoteURLs reports whether two remotes point at the same repository regardless of protocol and case.
func EquivalentRemoteURLs(first string, second string) bool {
	firstBrowsingURL, firstError := BrowsingURL(first)
	if firstError != nil {
		return false
	}
	secondBrowsingURL, secondError := BrowsingURL(second)
	if secondError != nil {
		return false
	}
	return strings.EqualFold(trimScheme(firstBrowsingURL), trimScheme(secondBrowsingURL))
}

func trimScheme(browsingURL string) string {
	schemeIndex := strings.Index(browsingURL, schemeSeparatorConstant)
	if schemeIndex == -1 {
		return browsingURL
	}
	return browsingURL[schemeIndex+len(schemeSeparatorConstant):]
}

func validateRemoteURL(remote RemoteURL) error {
	if len(strings.TrimSpace(remote.Host)) == 0 {
		return RemoteURLParseError{Input: remote.Host, Message: requiredValueMessageConstant}
	}
	if len(strings.Trim(remote.Path, pathSeparatorConstant)) == 0 {
		return RemoteURLParseError{Input: remote.Path, Message: requiredValueMessageConstant}
	}
	return nil
}
