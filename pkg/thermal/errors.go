// SPDX-License-Identifier: BSD-3-Clause

package thermal

import "errors"

var (
	// ErrInvalidPIDConfig indicates a PID gain or output bound is invalid.
	ErrInvalidPIDConfig = errors.New("invalid PID configuration")
	// ErrInvalidSensorConfig indicates a sensor sampling parameter is invalid.
	ErrInvalidSensorConfig = errors.New("invalid sensor configuration")
	// ErrInvalidHeaterConfig indicates a heater supervisor parameter is invalid.
	ErrInvalidHeaterConfig = errors.New("invalid heater configuration")
	// ErrPWMWrite indicates the PWM backend rejected a write.
	ErrPWMWrite = errors.New("PWM write failed")
)
