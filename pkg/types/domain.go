package types

// DriverInfo describes a registered driver.
type DriverInfo struct {
	// Registry name of the driver.
	// example: PYQUANTE
	Name string `json:"name" example:"PYQUANTE"`
	// Option names accepted by the driver, in declaration order.
	// example: ["atoms","units","charge"]
	Options []string `json:"options" example:"[\"atoms\",\"units\",\"charge\"]"`
}

// MoleculeFile is an HDF5 molecule discovered on disk.
type MoleculeFile struct {
	// File name, used as the hdf5_input option.
	// example: h2.hdf5
	Name string `json:"name" example:"h2.hdf5"`
	// Absolute path to the file.
	// example: /home/user/molecules/h2.hdf5
	Path string `json:"path" example:"/home/user/molecules/h2.hdf5"`
	// File size in bytes.
	// example: 20480
	Size int64 `json:"size" example:"20480"`
}
