package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriassess/internal/domain"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nutriassess version "+Version)
}

func TestEnergyCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	doc := `{"weightKg":80,"heightCm":180,"ageYears":30,"sex":"male",
		"activityLevel":"moderate","goal":"weight_loss","caloricAdjustmentKcal":-500}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := execute(t, "", "energy", "--input", path)
	require.NoError(t, err)

	var res domain.EnergyResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1780, res.BMRKcal)
	assert.Equal(t, 2259, res.VETKcal)
}

func TestEnergyCommand_InvalidInput(t *testing.T) {
	_, err := execute(t, `{"weightKg":80,"heightCm":180,"ageYears":30,"sex":"male","activityLevel":"couch","goal":"maintenance"}`, "energy")
	var ee *domain.InvalidEnumError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "activity level", ee.Kind)

	_, err = execute(t, `{"weight":80}`, "energy")
	require.Error(t, err, "unknown fields are rejected")
}

func TestBodyCommand(t *testing.T) {
	out, err := execute(t, `{"weight":80,"height":180,"circumferences":{"waist":90,"hip":100}}`,
		"body", "--sex", "male", "--age", "30")
	require.NoError(t, err)

	var res domain.AnthropometricResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 24.69, res.BMI)
	require.NotNil(t, res.WaistHipRatio)
	assert.Equal(t, 0.9, res.WaistHipRatio.Value)
}

func TestBodyCommand_RequiresSex(t *testing.T) {
	_, err := execute(t, `{"weight":80,"height":180}`, "body", "--age", "30")
	require.Error(t, err)
}

func TestConfigFileOverridesEngineParams(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("engine:\n  water_liters_per_kg: 0.04\n"), 0o600))

	doc := `{"weightKg":80,"heightCm":180,"ageYears":30,"sex":"male","activityLevel":"moderate","goal":"maintenance"}`
	out, err := execute(t, doc, "--config", cfgPath, "energy")
	require.NoError(t, err)

	var res domain.EnergyResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 3.2, res.WaterLiters)
}
