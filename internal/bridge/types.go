package bridge

// Response is the envelope every bridge call answers with. Data is only
// meaningful when Success is true and Error only when it is false; Message is
// always present.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ResultData carries the payload fields reported by the mutating operations.
// Pointers distinguish an absent field from its zero value.
type ResultData struct {
	OldMachineID      *string `json:"old_machine_id,omitempty"`
	NewMachineID      *string `json:"new_machine_id,omitempty"`
	DeletedRows       *int    `json:"deleted_rows,omitempty"`
	DeletedFilesCount *int    `json:"deleted_files_count,omitempty"`
	StorageBackupPath *string `json:"storage_backup_path,omitempty"`
}

// OperationResult is returned by every mutating bridge call.
type OperationResult = Response[ResultData]

// BatchResult maps an operation key (telemetry, database, workspace) to the
// result the backend produced for it.
type BatchResult map[string]OperationResult

// BatchResponse is returned by run_all_operations.
type BatchResponse = Response[BatchResult]

// EditorTarget is one detected editor installation.
type EditorTarget struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Icon        string `json:"icon"`
	ConfigPath  string `json:"config_path,omitempty"`
	IDEType     string `json:"ide_type,omitempty"`
}

// SupportedOperation describes whether an operation applies to the selected
// editor target.
type SupportedOperation struct {
	ID          string `json:"id"`
	Supported   bool   `json:"supported"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// OperationsPayload is the data of get_supported_operations.
type OperationsPayload struct {
	Operations []SupportedOperation `json:"operations"`
	IDEType    string               `json:"ide_type"`
}

// IDE family discriminants reported in SystemInfo.IDEType.
const (
	IDETypeVSCode    = "vscode"
	IDETypeJetBrains = "jetbrains"
)

// SystemInfo holds the path information of the selected editor. Which field
// set is populated depends on IDEType.
type SystemInfo struct {
	EditorType string `json:"editor_type"`
	IDEType    string `json:"ide_type"`
	HomeDir    string `json:"home_dir,omitempty"`
	AppDataDir string `json:"app_data_dir,omitempty"`

	JetBrainsConfigPath   string `json:"jetbrains_config_path,omitempty"`
	PermanentDeviceIDPath string `json:"permanent_device_id_path,omitempty"`
	PermanentUserIDPath   string `json:"permanent_user_id_path,omitempty"`

	StoragePath          string `json:"storage_path,omitempty"`
	DBPath               string `json:"db_path,omitempty"`
	MachineIDPath        string `json:"machine_id_path,omitempty"`
	WorkspaceStoragePath string `json:"workspace_storage_path,omitempty"`
}

// IsJetBrains reports whether the JetBrains field set applies.
func (s SystemInfo) IsJetBrains() bool {
	return s.IDEType == IDETypeJetBrains
}

// StatusInfo is the data of get_status.
type StatusInfo struct {
	Status     string `json:"status"`
	EditorType string `json:"editor_type"`
}

// FirstRun is the data of is_first_run.
type FirstRun struct {
	IsFirstRun bool `json:"is_first_run"`
}

// VersionInfo is the data of get_version_info.
type VersionInfo struct {
	Version       string `json:"version"`
	PythonVersion string `json:"python_version,omitempty"`
}

// DetectResult is returned by detect_ides and get_default_ides.
type DetectResult struct {
	Success bool
	IDEs    []EditorTarget
	Count   int
	Message string
	Error   string
}
