package config

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/offscreend/pkg/configdef"
)

type CreateConfigTestSuite struct {
	suite.Suite
	is                   *is.I
	configCreateResolver configdef.CreateResolver
	configDestroyer      configdef.Destroyer
	fs                   afero.Fs
	resetFS              func()
	resetUserDir         func()
}

func (suite *CreateConfigTestSuite) SetupSuite() {
	suite.is = is.New(suite.T())
	suite.fs = afero.NewMemMapFs()
	suite.configCreateResolver = DefaultCreateResolver()
	suite.configDestroyer = DefaultDestroyer()

	suite.resetFS = OverloadFS(suite.fs)
	suite.resetUserDir = OverloadUserConfigDir(func() (string, error) {
		return "test", nil
	})
}

func (suite *CreateConfigTestSuite) TearDownSuite() {
	suite.resetFS()
	suite.resetUserDir()
}

func (suite *CreateConfigTestSuite) TearDownTest() {
	suite.is.NoErr(suite.fs.RemoveAll("test"))
}

func (suite *CreateConfigTestSuite) TestConfigCreate() {
	require.NoError(suite.T(), suite.configCreateResolver.Create())
	loadedConfig, err := suite.configCreateResolver.Resolve()

	assert.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), configdef.Values{
		API:      configdef.API{ListenAddress: "127.0.0.1:3121"},
		Sessions: []configdef.Session{},
	}, loadedConfig)
}

func (suite *CreateConfigTestSuite) TestConfigCreateFailsDueToAlreadyExisting() {
	suite.is.NoErr(suite.configCreateResolver.Create())
	err := suite.configCreateResolver.Create()
	suite.is.Equal(err.Error(), "config file already exists")
	suite.is.True(errors.Is(err, configdef.ErrConfigAlreadyExists))
}

func (suite *CreateConfigTestSuite) TestConfigDestroyRemovesCreatedConfig() {
	suite.is.NoErr(suite.configCreateResolver.Create())
	suite.is.NoErr(suite.configDestroyer.Destroy())

	exists, err := afero.Exists(suite.fs, "test/tacusci/offscreend/config.json")
	suite.is.NoErr(err)
	suite.is.True(!exists)
}

func (suite *CreateConfigTestSuite) TestConfigDestroyWithoutConfigIsNoop() {
	suite.is.NoErr(suite.configDestroyer.Destroy())
}

func TestCreateConfigTestSuite(t *testing.T) {
	suite.Run(t, &CreateConfigTestSuite{})
}
