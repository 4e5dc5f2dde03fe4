// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import (
	"fmt"

	"github.com/momeni/clean-rental/pkg/core/model"
)

// MismatchingSemVerError reports an unsupported version of the
// configuration file or the database schema. The first element is
// the supported version and the second one is the version in use.
type MismatchingSemVerError [2]model.SemVer

func (msve *MismatchingSemVerError) Error() string {
	return fmt.Sprintf("expected v%s, but got v%s", msve[0], msve[1])
}
