// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// RepositoryManager drives the git executable for both inspection and
// mutation. GoGitInspector answers the same inspection questions in-process
// through go-git. The remote URL helpers normalize SSH and HTTPS remotes into
// browsing URLs.
package gitrepo
