package pipeline_config

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setUp() (string, func()) {
	tempDir := createTempDir()
	return tempDir, func() {
		deleteTempDir(tempDir)
	}
}

func createTempDir() string {
	dir, err := os.MkdirTemp("", "pipeline")
	if err != nil {
		panic(err)
	}
	return dir
}

func deleteTempDir(name string) {
	err := os.RemoveAll(name)
	if err != nil {
		panic(err)
	}
}

func createFile(filepath string, content string) func() {
	f, err := os.Create(filepath)
	if err != nil {
		panic(err)
	}
	_, err = f.WriteString(content)
	if err != nil {
		panic(err)
	}
	f.Close()
	return func() {
		err := os.Remove(filepath)
		if err != nil {
			panic(err)
		}
	}
}

func TestPipelineConfigWhenMultipleManifestsExist(t *testing.T) {
	tempDir, teardown := setUp()
	defer teardown()

	_, err := os.Create(path.Join(tempDir, "pipeline.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = os.Create(path.Join(tempDir, "pipeline.yml"))
	if err != nil {
		t.Fatal(err)
	}

	config, _, _, err := LoadPipelineConfig(tempDir)
	assert.Error(t, err, "expected error to be returned")
	assert.ErrorContains(t, err, ErrManifestConflict.Error(), "expected error to match target error")
	assert.Nil(t, config, "expected pipeline config to be nil")
}

func TestDefaultPipelineConfig(t *testing.T) {
	tempDir, teardown := setUp()
	defer teardown()

	manifest := `
package_name: openeo-cdse-tests
test_module_name: tests
python_version:
- "3.10"
`
	deleteFile := createFile(path.Join(tempDir, "pipeline.yaml"), manifest)
	defer deleteFile()

	config, _, _, err := LoadPipelineConfig(tempDir)
	assert.NoError(t, err, "expected error to be nil")
	assert.NotNil(t, config, "expected pipeline config to be not nil")
	assert.Equal(t, "openeo-cdse-tests", config.PackageName)
	assert.Equal(t, "tests", config.TestModuleName)
	assert.True(t, config.WipeoutWorkspace)
	assert.True(t, config.RunTests)
	assert.False(t, config.BuildWheel)
	assert.False(t, config.UploadDevWheels)
	assert.False(t, config.Pep440)
	assert.Equal(t, []Stage{StageWipeout, StageTest}, config.Stages)
}

func TestFullPipelineConfig(t *testing.T) {
	tempDir, teardown := setUp()
	defer teardown()

	manifest := `
package_name: openeo-cdse-tests
test_module_name: tests
wipeout_workspace: true
python_version:
- "3.10"
run_tests: true
build_wheel: true
upload_dev_wheels: true
pep440: true
extra_env_variables:
- OPENEO_AUTH_METHOD=client_credentials
- OPENEO_OIDC_DEVICE_CODE_MAX_POLL_TIME=5
- OPENEO_AUTH_PROVIDER_ID=CDSE
- OPENEO_AUTH_CLIENT_ID=openeo-cdse-ci-service-account
extra_env_secrets:
  OPENEO_AUTH_CLIENT_SECRET: TAP/big_data_services/openeo/cdse-service-accounts/openeo-cdse-ci-service-account client_secret
`
	deleteFile := createFile(path.Join(tempDir, "pipeline.yml"), manifest)
	defer deleteFile()

	config, _, stageGraph, err := LoadPipelineConfig(tempDir)
	assert.NoError(t, err, "expected error to be nil")
	assert.NotNil(t, config, "expected pipeline config to be not nil")
	assert.NotNil(t, stageGraph, "expected stage graph to be not nil")

	assert.Equal(t, 4, len(config.ExtraEnvVariables))
	assert.Equal(t, "OPENEO_AUTH_METHOD", config.ExtraEnvVariables[0].Name)
	assert.Equal(t, "client_credentials", config.ExtraEnvVariables[0].Value)

	assert.Equal(t, 1, len(config.ExtraEnvSecrets))
	secret := config.ExtraEnvSecrets[0]
	assert.Equal(t, "OPENEO_AUTH_CLIENT_SECRET", secret.EnvName)
	assert.Equal(t, "TAP/big_data_services/openeo/cdse-service-accounts/openeo-cdse-ci-service-account", secret.Path)
	assert.Equal(t, "client_secret", secret.Field)

	assert.Equal(t, []Stage{StageWipeout, StageTest, StageBuild, StageUpload}, config.Stages)
}

func TestPipelineConfigMissingPackageName(t *testing.T) {
	_, _, _, err := LoadPipelineConfigFromString(`
test_module_name: tests
python_version: ["3.10"]
`)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "package_name")
}

func TestPipelineConfigInvalidEnvVariableEntry(t *testing.T) {
	_, _, _, err := LoadPipelineConfigFromString(`
package_name: openeo-cdse-tests
test_module_name: tests
python_version: ["3.10"]
extra_env_variables:
- NOT_A_PAIR
`)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "KEY=VALUE")
}

func TestPipelineConfigInvalidEnvVariableName(t *testing.T) {
	_, _, _, err := LoadPipelineConfigFromString(`
package_name: openeo-cdse-tests
test_module_name: tests
python_version: ["3.10"]
extra_env_variables:
- 1BAD=value
`)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "not a valid environment variable name")
}

func TestPipelineConfigInvalidPythonVersion(t *testing.T) {
	_, _, _, err := LoadPipelineConfigFromString(`
package_name: openeo-cdse-tests
test_module_name: tests
python_version: ["py310"]
`)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "not a valid python interpreter version")
}

func TestPipelineConfigUploadWithoutBuild(t *testing.T) {
	_, _, _, err := LoadPipelineConfigFromString(`
package_name: openeo-cdse-tests
test_module_name: tests
python_version: ["3.10"]
build_wheel: false
upload_dev_wheels: true
`)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "upload_dev_wheels requires build_wheel")
}

func TestPipelineConfigDuplicatedEnvName(t *testing.T) {
	_, _, _, err := LoadPipelineConfigFromString(`
package_name: openeo-cdse-tests
test_module_name: tests
python_version: ["3.10"]
extra_env_variables:
- OPENEO_AUTH_CLIENT_SECRET=plain
extra_env_secrets:
  OPENEO_AUTH_CLIENT_SECRET: TAP/some/path client_secret
`)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "bound both as a variable and a secret")
}

func TestPipelineConfigEmptySecretPath(t *testing.T) {
	_, _, _, err := LoadPipelineConfigFromString(`
package_name: openeo-cdse-tests
test_module_name: tests
python_version: ["3.10"]
extra_env_secrets:
  OPENEO_AUTH_CLIENT_SECRET: " "
`)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "empty secret-store path")
}

func TestPipelineConfigTestsWithoutTestModule(t *testing.T) {
	_, _, _, err := LoadPipelineConfigFromString(`
package_name: openeo-cdse-tests
python_version: ["3.10"]
run_tests: true
`)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "test_module_name")
}

func TestPipelineConfigMultiplePythonVersions(t *testing.T) {
	config, _, _, err := LoadPipelineConfigFromString(`
package_name: openeo-cdse-tests
test_module_name: tests
python_version: ["3.9", "3.10", "3.11"]
`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"3.9", "3.10", "3.11"}, config.PythonVersions)
}

func TestAutoDetectPipelineConfig(t *testing.T) {
	tempDir, teardown := setUp()
	defer teardown()

	deletePyproject := createFile(path.Join(tempDir, "pyproject.toml"), "[project]\n")
	defer deletePyproject()

	err := os.Mkdir(path.Join(tempDir, "tests"), 0755)
	assert.NoError(t, err)
	deleteTest := createFile(path.Join(tempDir, "tests", "test_smoke.py"), "")
	defer deleteTest()

	manifestYaml, err := AutoDetectPipelineConfig(tempDir)
	assert.NoError(t, err)
	assert.NotEmpty(t, manifestYaml.PackageName)
	assert.Equal(t, "tests", manifestYaml.TestModuleName)
}

func TestAutoDetectNoPythonPackage(t *testing.T) {
	tempDir, teardown := setUp()
	defer teardown()

	_, err := AutoDetectPipelineConfig(tempDir)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "no python package detected")
}

func TestIsFileExistsPathUnderRegularFile(t *testing.T) {
	tempDir, teardown := setUp()
	defer teardown()

	deleteFile := createFile(path.Join(tempDir, "plain.txt"), "")
	defer deleteFile()

	// stat fails with ENOTDIR here, not with not-exist
	assert.False(t, isFileExists(path.Join(tempDir, "plain.txt", "pipeline.yml")))
}

func TestAutoDetectValidationErrorNamesSynthesizedManifest(t *testing.T) {
	tempDir, teardown := setUp()
	defer teardown()

	// directory name normalizes to an invalid distribution name
	pkgDir := path.Join(tempDir, "-badname-")
	err := os.Mkdir(pkgDir, 0755)
	assert.NoError(t, err)
	deletePyproject := createFile(path.Join(pkgDir, "pyproject.toml"), "[project]\n")
	defer deletePyproject()

	_, err = LoadManifestYaml(pkgDir)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "auto-detected manifest")
}

func TestParseSecretRefWithoutField(t *testing.T) {
	ref := ParseSecretRef("MY_SECRET", "TAP/services/token")
	assert.Equal(t, "TAP/services/token", ref.Path)
	assert.Equal(t, "", ref.Field)
}

func TestStageGraphOrderIsStable(t *testing.T) {
	for i := 0; i < 20; i++ {
		config, _, _, err := LoadPipelineConfigFromString(`
package_name: openeo-cdse-tests
test_module_name: tests
python_version: ["3.10"]
build_wheel: true
upload_dev_wheels: true
`)
		assert.NoError(t, err)
		assert.Equal(t, []Stage{StageWipeout, StageTest, StageBuild, StageUpload}, config.Stages)
	}
}
