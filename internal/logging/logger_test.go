package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetState() {
	CloseAll()
	CloseAudit()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	workspace = ""
	configLoaded = false
}

func initWorkspace(t *testing.T, configContent string) string {
	t.Helper()
	tempDir := t.TempDir()

	configDir := filepath.Join(tempDir, ".soylem")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if configContent != "" {
		configPath := filepath.Join(configDir, "config.json")
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
	}

	resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return tempDir
}

func TestAllCategoriesLog(t *testing.T) {
	tempDir := initWorkspace(t, `{
		"logging": {
			"level": "debug",
			"debug_mode": true
		}
	}`)
	defer resetState()

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot,
		CategoryPipeline,
		CategoryConfig,
		CategoryIntent,
		CategorySituation,
		CategoryActs,
		CategoryPlanner,
		CategoryRisk,
		CategoryApproval,
		CategoryCritique,
		CategoryGrammar,
		CategorySelector,
		CategoryRealizer,
		CategoryFeedback,
	}

	for _, cat := range categories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		logger := Get(cat)
		logger.Info("Test info message for %s", cat)
		logger.Debug("Test debug message for %s", cat)
		logger.Warn("Test warn message for %s", cat)
		logger.Error("Test error message for %s", cat)
	}

	// Also test convenience functions
	Pipeline("Convenience pipeline log")
	Intent("Convenience intent log")
	Situation("Convenience situation log")
	Acts("Convenience acts log")
	Planner("Convenience planner log")
	Risk("Convenience risk log")
	Approval("Convenience approval log")
	Critique("Convenience critique log")
	Grammar("Convenience grammar log")
	Selector("Convenience selector log")
	Realizer("Convenience realizer log")
	Feedback("Convenience feedback log")

	CloseAll()

	// Each category should have produced a dated log file
	logFiles, err := os.ReadDir(filepath.Join(tempDir, ".soylem", "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	found := make(map[string]bool)
	for _, f := range logFiles {
		for _, cat := range categories {
			if strings.HasSuffix(f.Name(), string(cat)+".log") {
				found[string(cat)] = true
			}
		}
	}
	for _, cat := range categories {
		if !found[string(cat)] {
			t.Errorf("No log file created for category %s", cat)
		}
	}
}

func TestProductionModeIsNoOp(t *testing.T) {
	tempDir := initWorkspace(t, "")
	defer resetState()

	if IsDebugMode() {
		t.Error("Expected debug mode to be disabled without config")
	}

	logger := Get(CategoryPipeline)
	logger.Info("should not be written")

	if _, err := os.Stat(filepath.Join(tempDir, ".soylem", "logs")); !os.IsNotExist(err) {
		t.Error("Logs directory should not exist in production mode")
	}
}

func TestCategoryFilter(t *testing.T) {
	initWorkspace(t, `{
		"logging": {
			"level": "debug",
			"debug_mode": true,
			"categories": {
				"risk": true,
				"realizer": false
			}
		}
	}`)
	defer resetState()

	if !IsCategoryEnabled(CategoryRisk) {
		t.Error("risk category should be enabled")
	}
	if IsCategoryEnabled(CategoryRealizer) {
		t.Error("realizer category should be disabled")
	}
	// Unlisted categories default to enabled
	if !IsCategoryEnabled(CategoryPlanner) {
		t.Error("unlisted category should default to enabled")
	}
}

func TestAuditTrail(t *testing.T) {
	tempDir := initWorkspace(t, `{
		"logging": {
			"level": "debug",
			"debug_mode": true
		}
	}`)
	defer resetState()

	Audit(AuditApprovalRejected, "plan_abc123", "critical risk", map[string]interface{}{
		"level": "critical",
	})
	Audit(AuditApprovalOverride, "plan_abc123", "human override", nil)
	CloseAudit()

	logFiles, err := os.ReadDir(filepath.Join(tempDir, ".soylem", "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	var auditPath string
	for _, f := range logFiles {
		if strings.HasSuffix(f.Name(), "_audit.jsonl") {
			auditPath = filepath.Join(tempDir, ".soylem", "logs", f.Name())
		}
	}
	if auditPath == "" {
		t.Fatal("audit trail file not created")
	}
	data, err := os.ReadFile(auditPath)
	if err != nil {
		t.Fatalf("Failed to read audit trail: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("audit lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "approval_rejected") {
		t.Errorf("first audit line = %q, want approval_rejected event", lines[0])
	}
}

func TestTimer(t *testing.T) {
	initWorkspace(t, `{
		"logging": {
			"level": "debug",
			"debug_mode": true
		}
	}`)
	defer resetState()

	timer := StartTimer(CategoryPipeline, "test operation")
	elapsed := timer.Stop()
	if elapsed < 0 {
		t.Errorf("elapsed = %v, want >= 0", elapsed)
	}
}
