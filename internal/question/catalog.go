package question

import (
	"errors"
	"regexp"
	"strings"

	"github.com/codex-labs/create-codex-app/internal/answers"
)

// Question ids of the default interview.
const (
	IDInitGit           = "initGit"
	IDProjectName       = "projectName"
	IDDescription       = "description"
	IDAuthor            = "author"
	IDLicense           = "license"
	IDPackageScope      = "packageScope"
	IDLanguage          = "language"
	IDStructure         = "structure"
	IDRegistry          = "registry"
	IDWorkspace         = "workspace"
	IDFramework         = "framework"
	IDUI                = "ui"
	IDRouting           = "routing"
	IDEditor            = "editor"
	IDTesting           = "testing"
	IDLinting           = "linting"
	IDFormatting        = "formatting"
	IDCommitConventions = "commitConventions"
	IDAuth              = "auth"
	IDAuthProvider      = "authProvider"
	IDDatabase          = "database"
	IDORM               = "orm"
	IDCaching           = "caching"
	IDAnalytics         = "analytics"
	IDMonitoring        = "monitoring"
	IDCreateRemote      = "createRemote"
	IDRemoteOrg         = "remoteOrg"
	IDRepoVisibility    = "repoVisibility"
	IDSetupCI           = "setupCI"
	IDCIProvider        = "ciProvider"
	IDAutoInstall       = "autoInstall"
	IDAutoStart         = "autoStart"
)

// DefaultProjectName is offered when no name was given on the command line.
const DefaultProjectName = "my-codex-app"

// NamePattern is the accepted shape of a project name.
var NamePattern = regexp.MustCompile(`^[A-Za-z0-9\-_]+$`)

var scopePattern = regexp.MustCompile(`^@?[a-z0-9][a-z0-9\-._~]*$`)

// ValidateProjectName rejects empty names and names outside NamePattern.
func ValidateProjectName(v any) error {
	s, _ := v.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("project name cannot be empty")
	}
	if !NamePattern.MatchString(s) {
		return errors.New("use only letters, numbers, - or _")
	}
	return nil
}

func validateScope(v any) error {
	s, _ := v.(string)
	if s == "" || scopePattern.MatchString(s) {
		return nil
	}
	return errors.New("scope must be lowercase letters, numbers, - . _ or ~")
}

// scopeTransform stores "foo" and "@foo" as "@foo" and an empty scope as null.
func scopeTransform(v any) any {
	s, _ := v.(string)
	s = strings.TrimPrefix(s, "@")
	if s == "" {
		return nil
	}
	return "@" + s
}

func isTrue(id string) func(answers.Set) bool {
	return func(a answers.Set) bool { return a.Bool(id) }
}

func routingChoices(a answers.Set) []Choice {
	switch a.String(IDFramework) {
	case "next":
		return []Choice{
			{Label: "App Router (recommended)", Value: "app"},
			{Label: "Pages Router", Value: "pages"},
		}
	case "vue":
		return []Choice{{Label: "Vue Router", Value: "vue-router"}}
	default:
		return []Choice{{Label: "React Router (vite)", Value: "react-router"}}
	}
}

func ormChoices(a answers.Set) []Choice {
	switch a.String(IDDatabase) {
	case "prisma-postgres", "sqlite":
		return []Choice{{Label: "Prisma", Value: "prisma"}, {Label: "None", Value: "none"}}
	case "mongo":
		return []Choice{{Label: "Mongoose/TypeORM", Value: "typeorm"}, {Label: "None", Value: "none"}}
	default:
		return []Choice{{Label: "None", Value: "none"}}
	}
}

func firstChoice(choices func(answers.Set) []Choice) func(answers.Set) any {
	return func(a answers.Set) any {
		cs := choices(a)
		if len(cs) == 0 {
			return nil
		}
		return cs[0].Value
	}
}

// Questions returns the default interview, one fresh slice per call.
func Questions() []*Question {
	return []*Question{
		// repository setup
		{ID: IDInitGit, Kind: Confirm, Phase: PhaseRepository, Message: "Initialize a Git repository?", Default: true},

		// metadata
		{ID: IDProjectName, Kind: Input, Phase: PhaseMetadata, Message: "Project name:", Default: DefaultProjectName, Validate: ValidateProjectName},
		{ID: IDDescription, Kind: Input, Phase: PhaseMetadata, Message: "Short description (optional):", Default: ""},
		{ID: IDAuthor, Kind: Input, Phase: PhaseMetadata, Message: "Author (name/email) (optional):", Default: ""},
		{ID: IDLicense, Kind: Select, Phase: PhaseMetadata, Message: "License:", Default: "MIT", Choices: []Choice{
			{Label: "MIT", Value: "MIT"},
			{Label: "Apache-2.0", Value: "Apache-2.0"},
			{Label: "GPL-3.0", Value: "GPL-3.0"},
			{Label: "Unlicense", Value: "Unlicense"},
			{Label: "Other", Value: "Other"},
		}},
		{ID: IDPackageScope, Kind: Input, Phase: PhaseMetadata, Message: "Package scope (optional, without @):", Default: "", Validate: validateScope, Transform: scopeTransform},

		// language/structure
		{ID: IDLanguage, Kind: Select, Phase: PhaseLanguage, Message: "Language preference:", Default: "typescript", Choices: []Choice{
			{Label: "TypeScript", Value: "typescript"},
			{Label: "JavaScript", Value: "javascript"},
		}},
		{ID: IDStructure, Kind: Select, Phase: PhaseLanguage, Message: "Project structure:", Default: "src-folder", Choices: []Choice{
			{Label: "Flat (no src folder)", Value: "flat"},
			{Label: "With src/ folder", Value: "src-folder"},
		}},

		// environment
		{ID: IDRegistry, Kind: Select, Phase: PhaseEnvironment, Message: "Package manager:", Default: "npm", Choices: []Choice{
			{Label: "npm", Value: "npm"},
			{Label: "pnpm", Value: "pnpm"},
			{Label: "yarn", Value: "yarn"},
			{Label: "bun", Value: "bun"},
		}},
		{ID: IDWorkspace, Kind: Select, Phase: PhaseEnvironment, Message: "Workspace type:", Default: "single", Choices: []Choice{
			{Label: "Single project", Value: "single"},
			{Label: "Turborepo (monorepo)", Value: "turborepo"},
		}},

		// framework/ui/routing
		{ID: IDFramework, Kind: Select, Phase: PhaseFramework, Message: "Choose framework:", Default: "react", Choices: []Choice{
			{Label: "React (Vite)", Value: "react"},
			{Label: "Next.js (App Router)", Value: "next"},
			{Label: "Vue (Vite)", Value: "vue"},
		}},
		{ID: IDUI, Kind: Select, Phase: PhaseFramework, Message: "UI library:", Default: "tailwind", Choices: Values("tailwind", "mui", "shadcn", "antd", "none")},
		{ID: IDRouting, Kind: Select, Phase: PhaseFramework, Message: "Routing:",
			ChoicesFunc: routingChoices, DefaultFunc: firstChoice(routingChoices), DependsOn: []string{IDFramework}},

		// quality tooling
		{ID: IDEditor, Kind: Select, Phase: PhaseQuality, Message: "Preferred editor configuration:", Default: "vscode", Choices: []Choice{
			{Label: "VS Code", Value: "vscode"},
			{Label: "Sublime Text", Value: "sublime"},
			{Label: "Atom", Value: "atom"},
			{Label: "None", Value: "none"},
		}},
		{ID: IDTesting, Kind: Select, Phase: PhaseQuality, Message: "Testing framework:", Default: "none", Choices: []Choice{
			{Label: "Vitest (unit, fast, Vite-friendly)", Value: "vitest"},
			{Label: "Jest (Next.js default)", Value: "jest"},
			{Label: "Playwright (E2E browser tests)", Value: "playwright"},
			{Label: "Cypress (E2E UI tests)", Value: "cypress"},
			{Label: "None", Value: "none"},
		}},
		{ID: IDLinting, Kind: Select, Phase: PhaseQuality, Message: "Linting:", Default: "eslint", Choices: []Choice{
			{Label: "ESLint", Value: "eslint"},
			{Label: "None", Value: "none"},
		}},
		{ID: IDFormatting, Kind: Select, Phase: PhaseQuality, Message: "Formatting:", Default: "prettier", Choices: []Choice{
			{Label: "Prettier", Value: "prettier"},
			{Label: "None", Value: "none"},
		}},
		{ID: IDCommitConventions, Kind: Confirm, Phase: PhaseQuality, Message: "Use Conventional Commits (commitlint + husky)?", Default: true},

		// infrastructure
		{ID: IDAuth, Kind: Confirm, Phase: PhaseInfrastructure, Message: "Add authentication (starter setup)?", Default: false},
		{ID: IDAuthProvider, Kind: Select, Phase: PhaseInfrastructure, Message: "Auth provider:", Default: "nextauth",
			When: isTrue(IDAuth), DependsOn: []string{IDAuth}, Choices: []Choice{
				{Label: "NextAuth (Next only)", Value: "nextauth"},
				{Label: "Clerk", Value: "clerk"},
				{Label: "Supabase Auth", Value: "supabase"},
				{Label: "None", Value: "none"},
			}},
		{ID: IDDatabase, Kind: Select, Phase: PhaseInfrastructure, Message: "Database (for starter config):", Default: "none", Choices: []Choice{
			{Label: "None", Value: "none"},
			{Label: "Postgres (Prisma)", Value: "prisma-postgres"},
			{Label: "Supabase", Value: "supabase"},
			{Label: "MongoDB", Value: "mongo"},
			{Label: "SQLite (local)", Value: "sqlite"},
		}},
		{ID: IDORM, Kind: Select, Phase: PhaseInfrastructure, Message: "ORM:", Default: "prisma",
			ChoicesFunc: ormChoices, DependsOn: []string{IDDatabase},
			When: func(a answers.Set) bool {
				db := a.String(IDDatabase)
				return db != "" && db != "none"
			}},
		{ID: IDCaching, Kind: Select, Phase: PhaseInfrastructure, Message: "Caching strategy:", Default: "none", Choices: []Choice{
			{Label: "None", Value: "none"},
			{Label: "API-level cache (stale-while-revalidate)", Value: "api-cache"},
			{Label: "Edge cache (CDN)", Value: "edge"},
			{Label: "Redis (external)", Value: "redis"},
		}},
		{ID: IDAnalytics, Kind: Confirm, Phase: PhaseInfrastructure, Message: "Add analytics starter (PostHog / Plausible)?", Default: false},
		{ID: IDMonitoring, Kind: Confirm, Phase: PhaseInfrastructure, Message: "Add error monitoring (Sentry / Playwright traces)?", Default: false},

		// repository hosting
		{ID: IDCreateRemote, Kind: Confirm, Phase: PhaseHosting, Message: "Create a remote GitHub repository?", Default: false,
			When: isTrue(IDInitGit), DependsOn: []string{IDInitGit}},
		{ID: IDRemoteOrg, Kind: Input, Phase: PhaseHosting, Message: "GitHub organization (leave blank to use your account):", Default: "",
			When: isTrue(IDCreateRemote), DependsOn: []string{IDCreateRemote}},
		{ID: IDRepoVisibility, Kind: Select, Phase: PhaseHosting, Message: "Repository visibility:", Default: "public",
			When: isTrue(IDCreateRemote), DependsOn: []string{IDCreateRemote}, Choices: []Choice{
				{Label: "Public", Value: "public"},
				{Label: "Private", Value: "private"},
			}},
		{ID: IDSetupCI, Kind: Confirm, Phase: PhaseHosting, Message: "Configure CI / deploy?", Default: false,
			When: isTrue(IDCreateRemote), DependsOn: []string{IDCreateRemote}},
		{ID: IDCIProvider, Kind: Select, Phase: PhaseHosting, Message: "Deployment target:",
			When: isTrue(IDSetupCI), DependsOn: []string{IDSetupCI}, Choices: []Choice{
				{Label: "Vercel", Value: "vercel"},
				{Label: "Netlify", Value: "netlify"},
				{Label: "GitHub Actions", Value: "github-actions"},
				{Label: "None", Value: "none"},
			}},

		// automation
		{ID: IDAutoInstall, Kind: Confirm, Phase: PhaseAutomation, Message: "Run package install after generation?", Default: true},
		{ID: IDAutoStart, Kind: Confirm, Phase: PhaseAutomation, Message: "Start dev server after install?", Default: false},
	}
}

// Default returns the graph of the default interview.
func Default() *Graph {
	return MustGraph(Questions()...)
}
