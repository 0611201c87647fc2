package openai

// planSchema is the strict JSON schema the model output must satisfy. Every
// property is required and nullable fields carry the discriminator rules in
// their descriptions; structural validation beyond the schema happens in
// decodePlan.
var planSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"trip", "error"},
			"description": "Discriminator. 'trip' for valid itineraries, 'error' for invalid or off-topic inputs.",
		},
		"error": map[string]interface{}{
			"type":        []string{"string", "null"},
			"description": "Message explaining the rejection when mode='error', null otherwise.",
		},
		"tripTitle":       map[string]interface{}{"type": []string{"string", "null"}},
		"startingMessage": map[string]interface{}{"type": []string{"string", "null"}},
		"summary":         map[string]interface{}{"type": []string{"string", "null"}},
		"dailyPlan": map[string]interface{}{
			"type":  []string{"array", "null"},
			"items": dayPlanSchema,
		},
		"listOfPlaces": map[string]interface{}{
			"type": []string{"array", "null"},
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"places": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"city":          map[string]interface{}{"type": "string"},
							"stateOrRegion": map[string]interface{}{"type": "string"},
							"country":       map[string]interface{}{"type": "string"},
						},
						"required":             []string{"city", "stateOrRegion", "country"},
						"additionalProperties": false,
					},
				},
				"required":             []string{"places"},
				"additionalProperties": false,
			},
		},
		"totalBudget": map[string]interface{}{
			"type": []string{"string", "null"},
			"enum": []interface{}{"low", "mid", "high", nil},
		},
	},
	"required": []string{
		"mode", "error", "tripTitle", "startingMessage",
		"summary", "dailyPlan", "listOfPlaces", "totalBudget",
	},
	"additionalProperties": false,
}

var dayPlanSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"day":   map[string]interface{}{"type": "integer"},
		"theme": map[string]interface{}{"type": "string"},
		"activities": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"timeOfDay": map[string]interface{}{
						"type": "string",
						"enum": []string{"Morning", "Afternoon", "Evening", "Night"},
					},
					"location":    map[string]interface{}{"type": "string"},
					"description": map[string]interface{}{"type": "string"},
					"costLabel": map[string]interface{}{
						"type": "string",
						"enum": []string{"low", "mid", "high"},
					},
					"gpsCoordinates": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"latitude":  map[string]interface{}{"type": "number"},
							"longitude": map[string]interface{}{"type": "number"},
						},
						"required":             []string{"latitude", "longitude"},
						"additionalProperties": false,
					},
				},
				"required":             []string{"timeOfDay", "location", "description", "costLabel", "gpsCoordinates"},
				"additionalProperties": false,
			},
		},
		"restaurants": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"lunch":   mealSchema,
				"dinner":  mealSchema,
				"snacks":  map[string]interface{}{"type": "array", "items": mealSchema},
				"mustTry": map[string]interface{}{"type": "array", "items": mealSchema},
			},
			"required":             []string{"lunch", "dinner", "snacks", "mustTry"},
			"additionalProperties": false,
		},
	},
	"required":             []string{"day", "theme", "activities", "restaurants"},
	"additionalProperties": false,
}

var mealSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"name":        map[string]interface{}{"type": "string"},
		"description": map[string]interface{}{"type": "string"},
	},
	"required":             []string{"name", "description"},
	"additionalProperties": false,
}
