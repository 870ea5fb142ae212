package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// gitignoreEntries keep store files out of version control.
var gitignoreEntries = []string{"survey.db", "test.db", ".env"}

// ScaffoldProject sets up a directory for running surveys: survey.toml, a
// .env template and .gitignore entries for the store files. Files that
// already exist are left untouched apart from appending missing .gitignore
// entries. Returns the list of created or updated paths.
func ScaffoldProject(dir string) ([]string, error) {
	var created []string

	tomlPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		if _, initErr := InitFile(dir); initErr != nil {
			return created, initErr
		}
		created = append(created, tomlPath)
	}

	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		if writeErr := os.WriteFile(envPath, []byte(dotEnvTemplate), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", envPath, writeErr)
		}
		created = append(created, envPath)
	}

	gitignorePath := filepath.Join(dir, ".gitignore")
	existing, err := os.ReadFile(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return created, fmt.Errorf("scaffold: read %s: %w", gitignorePath, err)
	}

	content := string(existing)
	present := make(map[string]bool)
	for _, line := range strings.Split(content, "\n") {
		present[strings.TrimSpace(line)] = true
	}
	var missing []string
	for _, e := range gitignoreEntries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) > 0 {
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content += "\n"
		}
		content += strings.Join(missing, "\n") + "\n"
		if writeErr := os.WriteFile(gitignorePath, []byte(content), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		created = append(created, gitignorePath)
	}

	return created, nil
}

const dotEnvTemplate = `# Environment overrides for survey. Uncomment to use.
# SURVEY_ENV=test
# SURVEY_STORE=survey.db
# SURVEY_CONFIG=survey.toml
`
