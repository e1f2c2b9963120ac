package versioning

// Messages holds every user-facing failure message. Each one can be reworded under common.messages.
type Messages struct {
	VersionConfigDoesNotExist        string `mapstructure:"versionConfigDoesNotExist" yaml:"versionConfigDoesNotExist"`
	UndefinedGitRepositoryURL        string `mapstructure:"undefinedGitRepositoryUrl" yaml:"undefinedGitRepositoryUrl"`
	UnavailableGitPlatform           string `mapstructure:"unavailableGitPlatform" yaml:"unavailableGitPlatform"`
	UnsupportedGitBackend            string `mapstructure:"unsupportedGitBackend" yaml:"unsupportedGitBackend"`
	UnavailableVersioningDirectory   string `mapstructure:"unavailableVersioningDirectory" yaml:"unavailableVersioningDirectory"`
	UnavailableSemanticVersion       string `mapstructure:"unavailableSemanticVersion" yaml:"unavailableSemanticVersion"`
	UndefinedVersionBranchName       string `mapstructure:"undefinedVersionBranchName" yaml:"undefinedVersionBranchName"`
	IncorrectVersionBranchNameLength string `mapstructure:"incorrectVersionBranchNameLength" yaml:"incorrectVersionBranchNameLength"`
	ReservedTagSeparator             string `mapstructure:"reservedTagSeparator" yaml:"reservedTagSeparator"`
	InvalidVersionBranchName         string `mapstructure:"invalidVersionBranchName" yaml:"invalidVersionBranchName"`
	MismatchedGitRemote              string `mapstructure:"mismatchedGitRemote" yaml:"mismatchedGitRemote"`
	UntrackedGitFiles                string `mapstructure:"untrackedGitFiles" yaml:"untrackedGitFiles"`
	FailedVersionBump                string `mapstructure:"failedVersionBump" yaml:"failedVersionBump"`
	UnavailableBumpedVersion         string `mapstructure:"unavailableBumpedVersion" yaml:"unavailableBumpedVersion"`
	ExistingVersionTag               string `mapstructure:"existingVersionTag" yaml:"existingVersionTag"`
	UnavailableGitTargetBranch       string `mapstructure:"unavailableGitTargetBranch" yaml:"unavailableGitTargetBranch"`
	ExistingVersionBranch            string `mapstructure:"existingVersionBranch" yaml:"existingVersionBranch"`
	FailedVersionBranch              string `mapstructure:"failedVersionBranch" yaml:"failedVersionBranch"`
	FailedVersionCommit              string `mapstructure:"failedVersionCommit" yaml:"failedVersionCommit"`
	FailedVersionTag                 string `mapstructure:"failedVersionTag" yaml:"failedVersionTag"`
	FailedVersionPush                string `mapstructure:"failedVersionPush" yaml:"failedVersionPush"`
	UnavailablePullRequestURL        string `mapstructure:"unavailablePullRequestUrl" yaml:"unavailablePullRequestUrl"`
	FailedBrowserLaunch              string `mapstructure:"failedBrowserLaunch" yaml:"failedBrowserLaunch"`
}

// DefaultMessages returns the built-in message texts.
func DefaultMessages() Messages {
	return Messages{
		VersionConfigDoesNotExist:        "Version configuration DOES NOT exist. Define: ./version.json file.",
		UndefinedGitRepositoryURL:        "Git repository URL is undefined. Define: correct git.url in ./version.json file.",
		UnavailableGitPlatform:           "Git platform is unavailable. Define correct git.platform in ./version.json file. Available platforms: github, bitbucket.",
		UnsupportedGitBackend:            "Git backend is unavailable. Define correct git.backend in ./version.json file. Available backends: cli, go-git.",
		UnavailableVersioningDirectory:   "Get back to the root directory that contains project package.json.",
		UnavailableSemanticVersion:       "Semantic version is unavailable. Define correct --semver CLI parameter.",
		UndefinedVersionBranchName:       "Version branch name is undefined. Define correct --branch CLI parameter.",
		IncorrectVersionBranchNameLength: "Correct --branch CLI parameters MUST have length less",
		ReservedTagSeparator:             "Correct --branch CLI parameters MUST NOT contain the -- tag separator.",
		InvalidVersionBranchName:         "Correct --branch CLI parameters MAY contain only letters, digits, dots, underscores, hyphens and slashes.",
		MismatchedGitRemote:              "Git remote DOES NOT match git.url in ./version.json file.",
		UntrackedGitFiles:                "You have untracked git files. Commit all changes and try again.",
		FailedVersionBump:                "Package manager FAILED to bump the version.",
		UnavailableBumpedVersion:         "Package manager DID NOT produce a newer semantic version.",
		ExistingVersionTag:               "Version tag already exists. The version bump was reverted.",
		UnavailableGitTargetBranch:       "Git target branch is unavailable. Define: correct git.pr.target in ./version.json file.",
		ExistingVersionBranch:            "Version branch already exists. The version bump was reverted.",
		FailedVersionBranch:              "Version branch could not be created.",
		FailedVersionCommit:              "Version bump could not be committed.",
		FailedVersionTag:                 "Version tag could not be created.",
		FailedVersionPush:                "Version branch could not be pushed.",
		UnavailablePullRequestURL:        "Pull request URL could not be generated from git.url.",
		FailedBrowserLaunch:              "Pull request URL could not be opened in a browser.",
	}
}

func (messages Messages) withDefaults(defaults Messages) Messages {
	resolved := messages
	overrides := []struct {
		target   *string
		fallback string
	}{
		{&resolved.VersionConfigDoesNotExist, defaults.VersionConfigDoesNotExist},
		{&resolved.UndefinedGitRepositoryURL, defaults.UndefinedGitRepositoryURL},
		{&resolved.UnavailableGitPlatform, defaults.UnavailableGitPlatform},
		{&resolved.UnsupportedGitBackend, defaults.UnsupportedGitBackend},
		{&resolved.UnavailableVersioningDirectory, defaults.UnavailableVersioningDirectory},
		{&resolved.UnavailableSemanticVersion, defaults.UnavailableSemanticVersion},
		{&resolved.UndefinedVersionBranchName, defaults.UndefinedVersionBranchName},
		{&resolved.IncorrectVersionBranchNameLength, defaults.IncorrectVersionBranchNameLength},
		{&resolved.ReservedTagSeparator, defaults.ReservedTagSeparator},
		{&resolved.InvalidVersionBranchName, defaults.InvalidVersionBranchName},
		{&resolved.MismatchedGitRemote, defaults.MismatchedGitRemote},
		{&resolved.UntrackedGitFiles, defaults.UntrackedGitFiles},
		{&resolved.FailedVersionBump, defaults.FailedVersionBump},
		{&resolved.UnavailableBumpedVersion, defaults.UnavailableBumpedVersion},
		{&resolved.ExistingVersionTag, defaults.ExistingVersionTag},
		{&resolved.UnavailableGitTargetBranch, defaults.UnavailableGitTargetBranch},
		{&resolved.ExistingVersionBranch, defaults.ExistingVersionBranch},
		{&resolved.FailedVersionBranch, defaults.FailedVersionBranch},
		{&resolved.FailedVersionCommit, defaults.FailedVersionCommit},
		{&resolved.FailedVersionTag, defaults.FailedVersionTag},
		{&resolved.FailedVersionPush, defaults.FailedVersionPush},
		{&resolved.UnavailablePullRequestURL, defaults.UnavailablePullRequestURL},
		{&resolved.FailedBrowserLaunch, defaults.FailedBrowserLaunch},
	}
	for _, override := range overrides {
		*override.target = stringOrDefault(*override.target, override.fallback)
	}
	return resolved
}
