package gpt

// Type is a GUID identifying what a partition holds, in the standard
// uppercase textual form.
type Type string

// Common partition type GUIDs, see https://en.wikipedia.org/wiki/GUID_Partition_Table#Partition_entries
const (
	Unused             Type = "00000000-0000-0000-0000-000000000000"
	EFISystemPartition Type = "C12A7328-F81F-11D2-BA4B-00A0C93EC93B"
	BiosBoot           Type = "21686148-6449-6E6F-744E-656564454649"
	MicrosoftReserved  Type = "E3C9E316-0B5C-4DB8-817D-F92DF00215AE"
	MicrosoftBasicData Type = "EBD0A0A2-B9E5-4433-87C0-68B6B72699C7"
	LinuxFilesystem    Type = "0FC63DAF-8483-4772-8E79-3D69D8477DE4"
	LinuxSwap          Type = "0657FD6D-A4AB-43C4-84E5-0933C84B4F4F"
	LinuxLVM           Type = "E6D6D379-F507-44C2-A23C-238F2A3DF928"
)

var typeNames = map[string]Type{
	"efi":        EFISystemPartition,
	"bios":       BiosBoot,
	"linux":      LinuxFilesystem,
	"swap":       LinuxSwap,
	"lvm":        LinuxLVM,
	"windows":    MicrosoftBasicData,
	"msreserved": MicrosoftReserved,
}

// TypeByName resolves a short alias like "efi" or "linux" to its type GUID.
func TypeByName(name string) (Type, bool) {
	t, ok := typeNames[name]
	return t, ok
}
