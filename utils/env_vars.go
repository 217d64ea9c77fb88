package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// GetEnv reads an environment variable and converts it to T, falling back to
// defaultValue when the variable is unset or empty.
func GetEnv[T int | string | bool | time.Duration](envVarName string, defaultValue T) T {
	envValue, ok := os.LookupEnv(envVarName)
	if !ok || envValue == "" {
		return defaultValue
	}
	parsed, err := parseEnv[T](envVarName, envValue)
	if err != nil {
		panic(err)
	}
	return parsed
}

// GetRequiredEnv panics when the environment variable is unset, so that
// misconfiguration is caught at startup rather than on first use.
func GetRequiredEnv[T int | string | bool | time.Duration](envVarName string) T {
	envValue, ok := os.LookupEnv(envVarName)
	if !ok || envValue == "" {
		panic(fmt.Sprintf("%s environment variable is required", envVarName))
	}
	parsed, err := parseEnv[T](envVarName, envValue)
	if err != nil {
		panic(err)
	}
	return parsed
}

func parseEnv[T int | string | bool | time.Duration](envVarName, envValue string) (T, error) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(envValue).(T), nil
	case int:
		intValue, err := strconv.Atoi(envValue)
		if err != nil {
			return zero, fmt.Errorf("environment variable %s: '%s' is not an integer", envVarName, envValue)
		}
		return any(intValue).(T), nil
	case bool:
		boolValue, err := strconv.ParseBool(envValue)
		if err != nil {
			return zero, fmt.Errorf("environment variable %s: '%s' is not a boolean", envVarName, envValue)
		}
		return any(boolValue).(T), nil
	case time.Duration:
		durationValue, err := time.ParseDuration(envValue)
		if err != nil {
			return zero, fmt.Errorf("environment variable %s: '%s' is not a duration", envVarName, envValue)
		}
		return any(durationValue).(T), nil
	}
	return zero, fmt.Errorf("environment variable %s: unsupported type", envVarName)
}
