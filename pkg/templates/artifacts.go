// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package templates

import "path"

// Artifact is a class declared by one of the bundled templates
type Artifact struct {
	Symbol string
	File   string // output path relative to dest, without the .ts extension
}

// In returns the tree path of the artifact when expanded into dest
func (a Artifact) In(dest string) string {
	return path.Join(dest, a.File)
}

var (
	HeaderComponent  = Artifact{"HeaderComponent", "app/header/header.component"}
	FooterComponent  = Artifact{"FooterComponent", "app/footer/footer.component"}
	HomeComponent    = Artifact{"HomeComponent", "app/home/home.component"}
	LoadingComponent = Artifact{"LoadingComponent", "app/shared/components/loading/loading.component"}
	ModalComponent   = Artifact{"ModalComponent", "app/shared/components/modal/modal.component"}

	ScriptService  = Artifact{"ScriptService", "app/shared/services/load-scripts.service"}
	LoadingService = Artifact{"LoadingService", "app/shared/services/loading.service"}
	ModalService   = Artifact{"ModalService", "app/shared/services/modal.service"}

	LoadingInterceptor = Artifact{"LoadingInterceptor", "app/shared/interceptors/loading.interceptor"}
)

// Components are declared in the app module, in this order
var Components = []Artifact{HeaderComponent, FooterComponent, HomeComponent, LoadingComponent, ModalComponent}

// Services are provided by the app module, in this order
var Services = []Artifact{ScriptService, LoadingService, ModalService}

// DefaultMenuItems are the header links rendered when none are configured
var DefaultMenuItems = []string{"home"}
