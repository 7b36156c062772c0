package wizard

import (
	"strings"

	"github.com/utrainer/utrainer/internal/platform"
)

// Field keys shared by the flows and the forms that feed them.
const (
	KeyName          = "name"
	KeyModality      = "modality"
	KeyDomain        = "domain"
	KeyDescription   = "description"
	KeyFile          = "file"
	KeyUploaded      = "uploaded"
	KeyBaseModel     = "base_model"
	KeyDataset       = "dataset"
	KeyEpochs        = "epochs"
	KeyLearningRate  = "learning_rate"
	KeyBatchSize     = "batch_size"
	KeyGPUs          = "gpus"
	KeyRatios        = "ratios"
	KeyDedupe        = "dedupe"
	KeyQualityFilter = "quality_filter"
	KeyBuilt         = "built"
	KeyModel         = "model"
	KeyReplicas      = "replicas"
)

func filled(keys ...string) func(Values) bool {
	return func(v Values) bool {
		for _, k := range keys {
			if strings.TrimSpace(v.String(k)) == "" {
				return false
			}
		}
		return true
	}
}

// UploadFlow is the dataset upload wizard.
func UploadFlow() State {
	return New(
		Step{ID: 0, Name: "Basic info", Valid: filled(KeyName, KeyModality, KeyDomain)},
		Step{ID: 1, Name: "Upload files", Valid: func(v Values) bool {
			return filled(KeyFile)(v) && v.Bool(KeyUploaded)
		}},
		Step{ID: 2, Name: "Confirm"},
	)
}

// TrainingFlow is the training job creation wizard.
func TrainingFlow() State {
	return New(
		Step{ID: 0, Name: "Basic info", Valid: filled(KeyName)},
		Step{ID: 1, Name: "Model & data", Valid: filled(KeyBaseModel, KeyDataset)},
		Step{ID: 2, Name: "Hyper-parameters", Valid: func(v Values) bool {
			return v.Int(KeyEpochs) > 0 && v.Float(KeyLearningRate) > 0 && v.Int(KeyBatchSize) > 0
		}},
		Step{ID: 3, Name: "Resources", Valid: func(v Values) bool { return v.Int(KeyGPUs) > 0 }},
		Step{ID: 4, Name: "Review"},
	)
}

// ConstructionFlow is the dataset construction pipeline.
func ConstructionFlow() State {
	return New(
		Step{ID: 0, Name: "Sources", Valid: func(v Values) bool {
			rows := Ratios(v)
			if len(rows) == 0 {
				return false
			}
			for _, r := range rows {
				if strings.TrimSpace(r.Dataset) == "" {
					return false
				}
			}
			return true
		}},
		Step{ID: 1, Name: "Processing"},
		Step{ID: 2, Name: "Mix ratios", Valid: func(v Values) bool {
			return platform.RatioTotal(Ratios(v)) == 100
		}},
		Step{ID: 3, Name: "Build", Valid: func(v Values) bool { return v.Bool(KeyBuilt) }},
	)
}

// DeploymentFlow is the model deployment wizard.
func DeploymentFlow() State {
	return New(
		Step{ID: 0, Name: "Model", Valid: filled(KeyName, KeyModel)},
		Step{ID: 1, Name: "Resources", Valid: func(v Values) bool { return v.Int(KeyReplicas) > 0 }},
		Step{ID: 2, Name: "Confirm"},
	)
}

// Ratios returns the dataset mix stored under KeyRatios.
func Ratios(v Values) []platform.Ratio {
	rows, _ := v[KeyRatios].([]platform.Ratio)
	return rows
}
