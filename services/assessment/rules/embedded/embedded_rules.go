// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
This file serves as the bridge between the build system and the runtime logic. It utilizes the Go
embed package to bake the contract_risk_patterns.yaml file directly into the compiled binary.
This ensures that the default detection rules are immutable at runtime and travel with the
executable; operators can still point the engine at an external rule file to override them.
*/

package embedded

import (
	_ "embed"
)

// ContractRiskPatterns holds the raw byte content of the
// 'contract_risk_patterns.yaml' file.
//
// Populated at compile-time via the Go 'embed' directive. Pass these
// bytes to rules.ParseTable to obtain the default rule table.
//
//go:embed contract_risk_patterns.yaml
var ContractRiskPatterns []byte
