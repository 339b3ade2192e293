package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/vehlab/internal/models"
	"github.com/san-kum/vehlab/internal/vdyn"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	assert.Equal(t, []string{models.ModelUnicycle, models.ModelBicycle}, r.List())

	m, err := r.Get(models.ModelBicycle)
	require.NoError(t, err)
	assert.Equal(t, models.ModelBicycle, m.ID())
}

func TestGetUnknownModel(t *testing.T) {
	r := Default()

	_, err := r.Get("hovercraft")
	require.Error(t, err)
	assert.ErrorIs(t, err, vdyn.ErrUnknownModel)
}

func TestRegistrationOrderPreserved(t *testing.T) {
	r := New()
	r.Register(models.NewBicycle())
	r.Register(models.NewUnicycle())

	assert.Equal(t, []string{models.ModelBicycle, models.ModelUnicycle}, r.List())

	// Re-registering keeps the original position.
	r.Register(models.NewBicycle())
	assert.Equal(t, []string{models.ModelBicycle, models.ModelUnicycle}, r.List())
}

func TestDefaultReturnsIndependentValues(t *testing.T) {
	a := Default()
	b := Default()

	a.Register(models.NewUnicycle()) // no-op on ordering
	assert.Equal(t, a.List(), b.List())

	// Mutating one registry must not leak into the other.
	b.Register(&fakeModel{id: "fake"})
	assert.NotEqual(t, a.List(), b.List())
}

type fakeModel struct{ id string }

func (f *fakeModel) ID() string                  { return f.id }
func (f *fakeModel) Defaults() vdyn.Params       { return vdyn.Params{} }
func (f *fakeModel) Init(vdyn.Params) vdyn.State { return nil }
func (f *fakeModel) Step(x vdyn.State, in vdyn.Inputs, dt float64, p vdyn.Params) (vdyn.State, error) {
	return x, nil
}
func (f *fakeModel) Outputs(vdyn.State, vdyn.Params) vdyn.Telemetry { return vdyn.Telemetry{} }
