package openai

import (
	"testing"

	"trevelo-backend/domain/entities"
	apperrors "trevelo-backend/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	return &Generator{
		validate: validator.New(),
		logger:   zap.NewNop(),
	}
}

const validTripJSON = `{
	"mode": "trip",
	"tripTitle": "Lisbon Long Weekend",
	"startingMessage": "Here is your plan for Lisbon.",
	"summary": "Three relaxed days of food, viewpoints, and tram rides.",
	"dailyPlan": [
		{
			"day": 1,
			"theme": "Alfama and the castle",
			"activities": [
				{
					"timeOfDay": "Morning",
					"location": "Castelo de Sao Jorge",
					"description": "Walk the ramparts before the crowds arrive.",
					"costLabel": "mid",
					"gpsCoordinates": {"latitude": 38.7139, "longitude": -9.1334}
				}
			],
			"restaurants": {
				"lunch": {"name": "Ti-Natercia", "description": "Family-run tasca with bacalhau."},
				"dinner": {"name": "Taberna Sal Grosso", "description": "Small plates near Alfama."}
			}
		}
	],
	"listOfPlaces": [
		{"places": {"city": "Lisbon", "stateOrRegion": "", "country": "Portugal"}}
	],
	"totalBudget": "mid"
}`

func TestDecodePlanValidTrip(t *testing.T) {
	g := newTestGenerator(t)

	plan, err := g.decodePlan(validTripJSON)
	require.NoError(t, err)
	assert.Equal(t, entities.PlanModeTrip, plan.Mode)
	assert.False(t, plan.IsError())
	assert.Equal(t, "Lisbon Long Weekend", plan.TripTitle)
	require.Len(t, plan.DailyPlan, 1)
	require.Len(t, plan.DailyPlan[0].Activities, 1)
	assert.Equal(t, "Morning", plan.DailyPlan[0].Activities[0].TimeOfDay)
	require.Len(t, plan.ListOfPlaces, 1)
	assert.Equal(t, "Lisbon", plan.ListOfPlaces[0].Places.City)
}

func TestDecodePlanErrorMode(t *testing.T) {
	g := newTestGenerator(t)

	plan, err := g.decodePlan(`{"mode": "error", "error": "I can only help with travel planning."}`)
	require.NoError(t, err)
	assert.True(t, plan.IsError())
	assert.Equal(t, "I can only help with travel planning.", plan.Error)
}

func TestDecodePlanInvalidJSON(t *testing.T) {
	g := newTestGenerator(t)

	_, err := g.decodePlan(`not json at all`)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnprocessable))
}

func TestDecodePlanMissingFields(t *testing.T) {
	g := newTestGenerator(t)

	_, err := g.decodePlan(`{"mode": "trip"}`)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnprocessable))

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	issues, ok := appErr.Details["issues"].([]entities.FieldError)
	require.True(t, ok)
	assert.NotEmpty(t, issues)

	paths := make([]string, len(issues))
	for i, issue := range issues {
		paths[i] = issue.Path
	}
	assert.Contains(t, paths, "tripTitle")
	assert.Contains(t, paths, "summary")
}

func TestDecodePlanUnknownMode(t *testing.T) {
	g := newTestGenerator(t)

	_, err := g.decodePlan(`{"mode": "poem"}`)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnprocessable))
}

func TestFieldPathLowercasesSegments(t *testing.T) {
	assert.Equal(t, "dailyPlan.activities", lowerFirstSegments("DailyPlan.Activities"))
	assert.Equal(t, "dailyPlan[0].costLabel", lowerFirstSegments("DailyPlan[0].CostLabel"))
}
