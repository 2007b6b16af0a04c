package domain

// BuiltinTemplateSource labels results that came from DefaultTemplate.
const BuiltinTemplateSource = "builtin"

// DefaultTemplate returns the minimal microservice standard: a container build
// file, an orchestration file, an ignore file and a tests directory holding
// Python tests.
func DefaultTemplate() StructureTemplate {
	t, _, err := PrepareTemplate(defaultTemplateSpec())
	if err != nil {
		panic("invalid builtin template: " + err.Error())
	}
	return t
}

func defaultTemplateSpec() StructureTemplate {
	return StructureTemplate{
		Name:        "Minimal microservice standard",
		Description: "Basic structure every deployable service must carry",
		RequiredFiles: []RequiredFile{
			{Name: "Dockerfile", Description: "container build file", Required: true, Weight: 20, Kind: KindFile, Marker: true},
			{Name: "docker-compose.yml", Description: "container orchestration file", Required: true, Weight: 20, Kind: KindFile},
			{Name: ".gitignore", Description: "version-control ignore file", Required: true, Weight: 10, Kind: KindFile},
			{Name: "tests", Description: "tests directory", Required: true, Weight: 10, Kind: KindDirectory, Marker: true, MustContain: []string{"*.py"}},
		},
		QualityProfiles: map[string]FileQualityProfile{
			"Dockerfile": {
				Name: "dockerfile",
				Patterns: []QualityPattern{
					{
						Name: "expose_port", Regex: `EXPOSE\s+\d+`, Polarity: MustMatch, Weight: 5,
						Warning:        "EXPOSE missing",
						Recommendation: "Declare the service port in the Dockerfile with EXPOSE",
					},
					{
						Name: "copy_all", Regex: `COPY\s+\.\s+\.`, Polarity: MustNotMatch, Weight: 10,
						Warning:        "uses COPY . . without .dockerignore",
						Recommendation: "Copy only the files the image needs instead of COPY . .",
					},
					{
						Name: "unnecessary_tools", Regex: `(apt-get|yum|apk)\s+(install|add).*\b(vim|nano|curl|wget)\b`, Polarity: MustNotMatch, Weight: 5,
						Warning:        "installs unnecessary tools",
						Recommendation: "Remove editors and download tools from the runtime image",
					},
				},
			},
			"docker-compose.yml": {
				Name: "compose",
				Patterns: []QualityPattern{
					{
						Name: "restart_policy", Regex: `restart:\s*["']?(unless-stopped|always|on-failure)`, Polarity: MustMatch, Weight: 5,
						Warning:        "no restart policy",
						Recommendation: "Add a restart policy (unless-stopped, always or on-failure) to docker-compose.yml",
					},
					{
						Name: "latest_tag", Regex: `image:\s*\S+:latest\b`, Polarity: MustNotMatch, Weight: 5,
						Warning:        "uses the latest image tag",
						Recommendation: "Pin image tags in docker-compose.yml instead of using latest",
					},
				},
			},
			".gitignore": {
				Name:     "gitignore",
				Patterns: gitignorePatterns(".env", "__pycache__/", "*.pyc", "node_modules/", "build/", "dist/", ".pytest_cache/", "*.log"),
			},
			"tests": {
				Name: "tests",
				Patterns: []QualityPattern{
					{
						Name: "naming_convention", Regex: `^(test_.*|.*_test)\.py$`, Polarity: MustMatch, Target: TargetFilename, Weight: 5,
						Warning:        "test file {file} doesn't follow naming convention",
						Recommendation: "Name test files test_*.py or *_test.py",
					},
				},
			},
		},
		Scoring: DefaultScoringConfig(),
	}
}

func gitignorePatterns(entries ...string) []QualityPattern {
	patterns := make([]QualityPattern, 0, len(entries))
	for _, e := range entries {
		patterns = append(patterns, QualityPattern{
			Name:           "ignore " + e,
			Literal:        e,
			Polarity:       MustMatch,
			Weight:         1,
			Warning:        "missing " + e,
			Recommendation: "Add " + e + " to .gitignore",
		})
	}
	return patterns
}
