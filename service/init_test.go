package service

import (
	"context"
	"testing"

	"grain-quality-service/service/artifact"
	"grain-quality-service/service/config"
	"grain-quality-service/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string) *config.ApplicationConfig {
	cfg := config.DefaultConfig()
	cfg.Artifacts.Dir = dir
	return cfg
}

func TestBootstrap_FileSource(t *testing.T) {
	cfg := testConfig(testutil.WriteArtifacts(t))

	services, err := Bootstrap(context.Background(), cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	defer services.Close()

	assert.Equal(t, testutil.ExpectedFeatures(), services.Prediction.ExpectedFeatures())
	assert.Equal(t, services.Artifacts.ExpectedFeatures, services.Prediction.ExpectedFeatures())

	cases := testutil.GoldenCases()
	require.NotEmpty(t, cases)
	got, err := services.Prediction.Predict(cases[0].Features)
	require.NoError(t, err)
	assert.InDelta(t, cases[0].Prediction, got, 1e-9)
}

func TestBootstrap_MissingArtifactFails(t *testing.T) {
	cfg := testConfig(t.TempDir())

	services, err := Bootstrap(context.Background(), cfg, prometheus.NewRegistry())
	require.Error(t, err)
	assert.Nil(t, services)
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestBootstrapWithSource_Database(t *testing.T) {
	testDB := testutil.NewTestDB()
	defer testDB.Close()

	factory := testutil.NewTestDataFactory(testDB.DB)
	factory.CreateModelArtifact(testutil.ProcessorArtifactName, testutil.ProcessorArtifact())
	factory.CreateModelArtifact(testutil.ModelArtifactName, testutil.ModelArtifact())

	cfg := config.DefaultConfig()
	cfg.Artifacts.Source = config.SourceDatabase

	services, err := BootstrapWithSource(context.Background(), cfg, artifact.NewDatabaseSource(testDB.DB), nil)
	require.NoError(t, err)
	assert.Equal(t, "database://model_artifacts", services.Artifacts.Source)
	assert.NoError(t, services.Close())
}

func TestBootstrap_StrictFeatureMismatchFails(t *testing.T) {
	cfg := testConfig(testutil.WriteArtifacts(t))
	cfg.Features.Expected = []string{"Hardness", "Gluten_content", "Protein_content"}
	cfg.Features.Strict = true

	_, err := Bootstrap(context.Background(), cfg, prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestOpenSource(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Artifacts.Dir = "models"

	src, closeFn, err := OpenSource(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, closeFn)
	assert.IsType(t, &artifact.FileSource{}, src)

	cfg.Artifacts.Source = "s3"
	_, _, err = OpenSource(context.Background(), cfg)
	assert.Error(t, err)
}
