package config

import (
	"fmt"
	"strings"

	"github.com/AntoineDubuc/wingman-ai/internal/provider"
)

var validTuningModes = map[string]struct{}{
	"off":  {},
	"once": {},
	"auto": {},
}

var validProfileDrivers = map[string]struct{}{
	"static":   {},
	"supabase": {},
}

var validArchiveDrivers = map[string]struct{}{
	"memory": {},
	"redis":  {},
}

func Validate(root *RootConfig) *ValidationError {
	issues := []Issue{}
	if root == nil {
		issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Message: "config is nil"})
		return &ValidationError{Issues: issues}
	}

	if root.Version <= 0 {
		issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "version", Message: "must be >= 1"})
	}

	providerByName := map[string]ProviderConfig{}
	for i, pc := range root.Providers {
		path := fmt.Sprintf("%s.providers[%d]", RootConfigFile, i)
		if strings.TrimSpace(pc.Name) == "" {
			issues = append(issues, Issue{Level: IssueError, Path: path, Field: "name", Message: "is required"})
			continue
		}
		if _, exists := providerByName[pc.Name]; exists {
			issues = append(issues, Issue{Level: IssueError, Path: path, Field: "name", Message: "duplicate provider name"})
		}
		providerByName[pc.Name] = pc

		info, err := provider.Lookup(pc.Name)
		if err != nil {
			issues = append(issues, Issue{Level: IssueError, Path: path, Field: "name", Message: "unsupported provider"})
			continue
		}
		if pc.CooldownMS < 0 {
			issues = append(issues, Issue{Level: IssueError, Path: path, Field: "cooldown_ms", Message: "must be >= 0"})
		}
		if pc.TimeoutMS < 0 {
			issues = append(issues, Issue{Level: IssueError, Path: path, Field: "timeout_ms", Message: "must be >= 0"})
		}
		if strings.TrimSpace(pc.APIKeyEnv) == "" {
			issues = append(issues, Issue{Level: IssueWarning, Path: path, Field: "api_key_env", Message: fmt.Sprintf("empty value defaults to %s at runtime", info.DefaultKeyEnv)})
		}
		if strings.TrimSpace(pc.Model) == "" {
			issues = append(issues, Issue{Level: IssueWarning, Path: path, Field: "model", Message: fmt.Sprintf("empty value defaults to %s at runtime", info.DefaultModel)})
		}
	}

	if len(root.Providers) == 0 {
		issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "providers", Message: "at least one provider is required"})
	}

	if root.DefaultProvider != "" {
		if _, ok := providerByName[root.DefaultProvider]; !ok {
			issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "default_provider", Message: "references unknown provider"})
		}
	} else if len(root.Providers) > 1 {
		issues = append(issues, Issue{Level: IssueWarning, Path: RootConfigFile, Field: "default_provider", Message: "empty value defaults to the first configured provider"})
	}

	if _, ok := validTuningModes[root.Session.TuningMode]; !ok && root.Session.TuningMode != "" {
		issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "session.tuning_mode", Message: "must be one of off, once, auto"})
	}
	if root.Session.MaxTurns < 0 {
		issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "session.max_turns", Message: "must be >= 0"})
	}
	if root.Session.Temperature < 0 || root.Session.Temperature > 2 {
		issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "session.temperature", Message: "must be between 0 and 2"})
	}

	if root.KB.Enabled {
		if strings.TrimSpace(root.KB.URL) == "" {
			issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "kb.url", Message: "is required when kb is enabled"})
		}
		if strings.TrimSpace(root.KB.Collection) == "" {
			issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "kb.collection", Message: "is required when kb is enabled"})
		}
		if root.KB.TopK < 0 {
			issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "kb.top_k", Message: "must be >= 0"})
		}
		if root.KB.MinScore < 0 || root.KB.MinScore > 1 {
			issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "kb.min_score", Message: "must be between 0 and 1"})
		}
	}

	if root.Profile.Driver != "" {
		if _, ok := validProfileDrivers[root.Profile.Driver]; !ok {
			issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "profile.driver", Message: "must be one of static, supabase"})
		}
		if root.Profile.Driver == "supabase" {
			if strings.TrimSpace(root.Profile.URL) == "" {
				issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "profile.url", Message: "is required for supabase driver"})
			}
			if strings.TrimSpace(root.Profile.PublicToken) == "" {
				issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "profile.public_token", Message: "is required for supabase driver"})
			}
		}
	}

	if root.Archive.Driver != "" {
		if _, ok := validArchiveDrivers[root.Archive.Driver]; !ok {
			issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "archive.driver", Message: "must be one of memory, redis"})
		}
		if root.Archive.Driver == "redis" && strings.TrimSpace(root.Archive.RedisAddr) == "" {
			issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "archive.redis_addr", Message: "is required for redis driver"})
		}
		if root.Archive.TTLHours < 0 {
			issues = append(issues, Issue{Level: IssueError, Path: RootConfigFile, Field: "archive.ttl_hours", Message: "must be >= 0"})
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}
