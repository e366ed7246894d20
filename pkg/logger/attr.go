package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the decision subject under the key "user_id".
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

// FlagKey records the feature flag under the key "flag_key".
func FlagKey(key string) slog.Attr {
	return slog.String("flag_key", key)
}

// ExperimentKey records the experiment under the key "experiment_key".
func ExperimentKey(key string) slog.Attr {
	return slog.String("experiment_key", key)
}

// VariationKey records the decided variation under the key "variation_key".
func VariationKey(key string) slog.Attr {
	return slog.String("variation_key", key)
}
