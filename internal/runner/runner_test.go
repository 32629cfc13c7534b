package runner

import (
	"context"
	"testing"

	"github.com/msiegy/meraki-eol-manager/internal/catalog"
	"github.com/msiegy/meraki-eol-manager/internal/fixtures"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/msiegy/meraki-eol-manager/internal/render"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

type MockCatalogLoader struct {
	mock.Mock
}

func (m *MockCatalogLoader) Load(ctx context.Context) (*model.Catalog, []catalog.Diagnostic, error) {
	args := m.Called(ctx)

	c, _ := args.Get(0).(*model.Catalog)

	return c, nil, args.Error(1)
}

type MockReportWriter struct {
	mock.Mock
}

func (m *MockReportWriter) Write(ctx context.Context, run *model.RunResult) (*render.Artifacts, error) {
	args := m.Called(ctx, run)

	a, _ := args.Get(0).(*render.Artifacts)

	return a, args.Error(1)
}

func selectAll(orgs []model.Organization) ([]model.Organization, error) {
	return orgs, nil
}

func TestRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctrl := gomock.NewController(t)
	src := fixtures.NewMockSource(ctrl)

	src.EXPECT().Organizations(gomock.Any()).Times(1).Return([]model.Organization{fixtures.OrgAcme, fixtures.OrgEmptyCo, fixtures.OrgGlobex}, nil)
	src.EXPECT().Networks(gomock.Any(), "1").Times(1).Return(fixtures.NewAcmeNetworks(), nil)
	src.EXPECT().Devices(gomock.Any(), "1").Times(1).Return(fixtures.NewAcmeDevices(), nil)
	src.EXPECT().Networks(gomock.Any(), "2").Times(1).Return([]model.Network{}, nil)
	src.EXPECT().Devices(gomock.Any(), "2").Times(1).Return([]model.Device{}, nil)
	src.EXPECT().Networks(gomock.Any(), "3").Times(1).Return(nil, errors.New("pound sand"))

	loader := new(MockCatalogLoader)
	loader.On("Load", mock.Anything).Return(fixtures.NewCatalog(), nil).Once()

	artifacts := &render.Artifacts{HTML: "lifecycle_report.html"}
	writer := new(MockReportWriter)
	writer.On("Write", mock.Anything, mock.AnythingOfType("*model.RunResult")).Return(artifacts, nil).Once()

	run, got, err := New(loader, src, writer, 2, logrus.New()).Run(context.Background(), selectAll)
	require.Nil(t, err)

	assert.Equal(t, artifacts, got)
	require.Len(t, run.Reports, 1)
	assert.Equal(t, "Acme - 1", run.Reports[0].Key)
	assert.Equal(t, []model.Organization{fixtures.OrgEmptyCo}, run.Skipped)
	require.Len(t, run.Failures, 1)
	assert.Equal(t, fixtures.OrgGlobex, run.Failures[0].Organization)

	loader.AssertExpectations(t)
	writer.AssertExpectations(t)
}

func TestRunSelection(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctrl := gomock.NewController(t)
	src := fixtures.NewMockSource(ctrl)

	src.EXPECT().Organizations(gomock.Any()).Times(1).Return([]model.Organization{fixtures.OrgAcme, fixtures.OrgGlobex}, nil)
	// Globex is not selected, its inventory is never fetched
	src.EXPECT().Networks(gomock.Any(), "1").Times(1).Return(fixtures.NewAcmeNetworks(), nil)
	src.EXPECT().Devices(gomock.Any(), "1").Times(1).Return(fixtures.NewAcmeDevices(), nil)

	loader := new(MockCatalogLoader)
	loader.On("Load", mock.Anything).Return(fixtures.NewCatalog(), nil)

	writer := new(MockReportWriter)
	writer.On("Write", mock.Anything, mock.Anything).Return(&render.Artifacts{}, nil)

	selectFirst := func(orgs []model.Organization) ([]model.Organization, error) {
		return orgs[:1], nil
	}

	run, _, err := New(loader, src, writer, 1, logrus.New()).Run(context.Background(), selectFirst)
	require.Nil(t, err)

	assert.Len(t, run.Reports, 1)
	assert.Empty(t, run.Failures)
}

func TestRunFatal(t *testing.T) {
	errCatalog := errors.Wrap(catalog.ErrCatalogFetch, "status code 503")

	testcases := []struct {
		name      string
		catalog   error
		orgs      []model.Organization
		orgsErr   error
		selectErr error
		writeErr  error
		wantErr   error
	}{
		{
			name:    "catalog unavailable",
			catalog: errCatalog,
			orgs:    []model.Organization{fixtures.OrgAcme},
			wantErr: catalog.ErrCatalogFetch,
		},
		{
			name:    "organizations unavailable",
			orgsErr: errors.New("401 Unauthorized"),
			wantErr: ErrOrganizations,
		},
		{
			name:    "no organizations",
			orgs:    []model.Organization{},
			wantErr: ErrNoOrganizations,
		},
		{
			name:      "selection",
			orgs:      []model.Organization{fixtures.OrgAcme},
			selectErr: errors.New("invalid organization selection"),
			wantErr:   errors.New("invalid organization selection"),
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			src := fixtures.NewMockSource(ctrl)
			src.EXPECT().Organizations(gomock.Any()).Times(1).Return(tc.orgs, tc.orgsErr)

			loader := new(MockCatalogLoader)
			if tc.catalog != nil {
				loader.On("Load", mock.Anything).Return(nil, tc.catalog)
			} else {
				loader.On("Load", mock.Anything).Return(fixtures.NewCatalog(), nil)
			}

			// the writer is never reached
			writer := new(MockReportWriter)

			selector := func(orgs []model.Organization) ([]model.Organization, error) {
				return nil, tc.selectErr
			}

			_, _, err := New(loader, src, writer, 1, logrus.New()).Run(context.Background(), selector)
			if tc.selectErr != nil {
				assert.EqualError(t, err, tc.wantErr.Error())
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}

			writer.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
		})
	}
}

func TestRunWriteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := fixtures.NewMockSource(ctrl)

	src.EXPECT().Organizations(gomock.Any()).Return([]model.Organization{fixtures.OrgAcme}, nil)
	src.EXPECT().Networks(gomock.Any(), "1").Return(fixtures.NewAcmeNetworks(), nil)
	src.EXPECT().Devices(gomock.Any(), "1").Return(fixtures.NewAcmeDevices(), nil)

	loader := new(MockCatalogLoader)
	loader.On("Load", mock.Anything).Return(fixtures.NewCatalog(), nil)

	writer := new(MockReportWriter)
	writer.On("Write", mock.Anything, mock.Anything).Return(nil, render.ErrRender)

	run, _, err := New(loader, src, writer, 1, logrus.New()).Run(context.Background(), selectAll)
	assert.ErrorIs(t, err, render.ErrRender)
	assert.NotNil(t, run)
}
