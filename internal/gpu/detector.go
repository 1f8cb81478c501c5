package gpu

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Detector probes for CUDA-capable hardware so the recognition device can be
// resolved when the configuration asks for "auto".
type Detector struct {
	logger *zap.Logger
}

// Info contains information about available GPU devices
type Info struct {
	Available     bool
	DeviceCount   int
	DeviceName    string
	DriverVersion string
}

// NewDetector creates a new GPU detector instance
func NewDetector(logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		logger: logger,
	}
}

// Detect probes for NVIDIA GPU devices, first with nvidia-smi and then by
// checking the CUDA environment. A failed probe is not an error; it simply
// means CPU recognition.
func (d *Detector) Detect() *Info {
	info := &Info{}

	if err := d.detectWithNvidiaSMI(info); err != nil {
		d.logger.Debug("nvidia-smi detection failed", zap.Error(err))
		if err := d.detectWithCUDAEnv(info); err != nil {
			d.logger.Debug("CUDA environment detection failed", zap.Error(err))
			return info
		}
	}

	d.logger.Info("GPU detection completed",
		zap.Bool("available", info.Available),
		zap.Int("device_count", info.DeviceCount),
		zap.String("device_name", info.DeviceName))

	return info
}

// ResolveDevice maps a requested device to a concrete one, resolving "auto"
// from the detection result.
func (d *Detector) ResolveDevice(requested string) string {
	if requested != "auto" {
		return requested
	}
	if d.Detect().Available {
		return "cuda"
	}
	return "cpu"
}

// ResolveComputeType picks a compute type for the given device when the
// configuration did not request one explicitly. Quantized int8 variants keep
// memory use manageable on both device classes.
func ResolveComputeType(device, requested string) string {
	if requested != "" {
		return requested
	}
	if device == "cuda" {
		return "int8_float16"
	}
	return "int8"
}

// detectWithNvidiaSMI attempts to detect GPU devices using the nvidia-smi command
func (d *Detector) detectWithNvidiaSMI(info *Info) error {
	countCmd := exec.Command("nvidia-smi", "--list-gpus")
	countOutput, err := countCmd.Output()
	if err != nil {
		return fmt.Errorf("nvidia-smi command failed: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(countOutput)), "\n")
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		return fmt.Errorf("no GPUs found by nvidia-smi")
	}

	infoCmd := exec.Command("nvidia-smi", "--query-gpu=name,driver_version", "--format=csv,noheader,nounits", "--id=0")
	infoOutput, err := infoCmd.Output()
	if err != nil {
		return fmt.Errorf("nvidia-smi info query failed: %w", err)
	}

	parts := strings.Split(strings.TrimSpace(strings.Split(string(infoOutput), "\n")[0]), ",")
	if len(parts) < 2 {
		return fmt.Errorf("unexpected nvidia-smi info format: %q", string(infoOutput))
	}

	info.DeviceCount = len(lines)
	info.DeviceName = strings.TrimSpace(parts[0])
	info.DriverVersion = strings.TrimSpace(parts[1])
	info.Available = true
	return nil
}

// detectWithCUDAEnv falls back to the CUDA_VISIBLE_DEVICES environment
// variable, which container runtimes set when GPUs are passed through.
func (d *Detector) detectWithCUDAEnv(info *Info) error {
	devices := os.Getenv("CUDA_VISIBLE_DEVICES")
	if devices == "" || devices == "-1" {
		return fmt.Errorf("CUDA_VISIBLE_DEVICES not set")
	}

	info.DeviceCount = len(strings.Split(devices, ","))
	info.Available = true
	return nil
}
