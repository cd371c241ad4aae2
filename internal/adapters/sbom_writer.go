package adapters

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"target-platform/internal/ports"
	"target-platform/internal/types"
)

const SBOMFile = "target-platform.spdx.json"

// DefaultSBOMNamespace prefixes the SPDX document namespace.
const DefaultSBOMNamespace = "https://target-platform.dev/spdx/resolutions"

// SBOMWriterAdapter writes an SPDX 2.3 document listing every resolved
// unit into the output directory.
type SBOMWriterAdapter struct {
	Dir           string
	NamespaceBase string
}

func NewSBOMWriterAdapter(dir string) SBOMWriterAdapter {
	return SBOMWriterAdapter{Dir: dir}
}

type spdxCreationInfo struct {
	Created  string   `json:"created"`
	Creators []string `json:"creators"`
}

type spdxPackage struct {
	SPDXID           string `json:"SPDXID"`
	Name             string `json:"name"`
	VersionInfo      string `json:"versionInfo"`
	DownloadLocation string `json:"downloadLocation"`
	LicenseConcluded string `json:"licenseConcluded"`
	LicenseDeclared  string `json:"licenseDeclared"`
	Supplier         string `json:"supplier"`
	Comment          string `json:"comment,omitempty"`
}

type spdxRelationship struct {
	SpdxElementID      string `json:"spdxElementId"`
	RelationshipType   string `json:"relationshipType"`
	RelatedSpdxElement string `json:"relatedSpdxElement"`
}

type spdxDocument struct {
	SPDXVersion       string             `json:"SPDXVersion"`
	DataLicense       string             `json:"dataLicense"`
	SPDXID            string             `json:"SPDXID"`
	Name              string             `json:"name"`
	DocumentNamespace string             `json:"documentNamespace"`
	CreationInfo      spdxCreationInfo   `json:"creationInfo"`
	Packages          []spdxPackage      `json:"packages"`
	Relationships     []spdxRelationship `json:"relationships"`
	DocumentDescribes []string           `json:"documentDescribes"`
}

func (a SBOMWriterAdapter) WriteSBOM(content types.ResolvedContent) error {
	if strings.TrimSpace(content.ResolutionID) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolution id is empty")
	}
	path, err := OutputFileAdapter{Dir: a.Dir}.ensurePath(SBOMFile)
	if err != nil {
		return err
	}
	created := strings.TrimSpace(content.ResolvedAt)
	if created == "" {
		created = time.Now().UTC().Format(time.RFC3339)
	}
	namespace := a.NamespaceBase
	if namespace == "" {
		namespace = DefaultSBOMNamespace
	}
	name := content.Target
	if name == "" {
		name = "target-platform"
	}
	doc := spdxDocument{
		SPDXVersion:       "SPDX-2.3",
		DataLicense:       "CC0-1.0",
		SPDXID:            "SPDXRef-DOCUMENT",
		Name:              fmt.Sprintf("%s resolution %s", name, content.ResolutionID),
		DocumentNamespace: fmt.Sprintf("%s/%s", strings.TrimRight(namespace, "/"), content.ResolutionID),
		CreationInfo: spdxCreationInfo{
			Created:  created,
			Creators: []string{"Tool: target-platform"},
		},
	}
	for _, unit := range content.Units {
		spdxID := spdxPackageID(unit.ID, unit.Version)
		pkg := spdxPackage{
			SPDXID:           spdxID,
			Name:             unit.ID,
			VersionInfo:      unit.Version,
			DownloadLocation: "NOASSERTION",
			LicenseConcluded: "NOASSERTION",
			LicenseDeclared:  "NOASSERTION",
			Supplier:         "NOASSERTION",
		}
		if unit.Synthetic {
			pkg.Comment = "provided by execution environment " + content.ExecutionEnvironment
		} else if unit.Provenance != "" {
			pkg.Comment = "repository " + unit.Provenance
		}
		doc.Packages = append(doc.Packages, pkg)
		doc.DocumentDescribes = append(doc.DocumentDescribes, spdxID)
		doc.Relationships = append(doc.Relationships, spdxRelationship{
			SpdxElementID:      "SPDXRef-DOCUMENT",
			RelationshipType:   "DESCRIBES",
			RelatedSpdxElement: spdxID,
		})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal sbom payload").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write sbom file").
			WithCause(err)
	}
	return nil
}

func spdxPackageID(name string, version string) string {
	seed := fmt.Sprintf("%s@%s", name, version)
	hash := sha256.Sum256([]byte(seed))
	return "SPDXRef-Package-" + hex.EncodeToString(hash[:8])
}

var _ ports.SBOMPort = SBOMWriterAdapter{}
