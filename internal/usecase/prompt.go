package usecase

import (
	"fmt"

	"tryon-studio/internal/domain/model"
)

// MaxPromptLen is the hard cap the generation API places on promptText.
const MaxPromptLen = 999

// TruncatePrompt caps an instruction at MaxPromptLen characters. The cap is
// enforced again at the submission boundary; doing it here too keeps the
// builder's contract self-contained.
func TruncatePrompt(s string) string {
	if len(s) <= MaxPromptLen {
		return s
	}
	return s[:MaxPromptLen]
}

// BuildPrompt maps an item category to its generation instruction. Every
// variant locks identity (face, skin, hair, background), forbids inventing
// gem or material designs, demands consistent lighting and forbids cropping.
func BuildPrompt(category model.ItemCategory) string {
	switch category {
	case model.CategoryClothing:
		return TruncatePrompt(promptClothing)
	case model.CategoryEyewear:
		return TruncatePrompt(promptEyewear)
	case model.CategoryCustomCombo:
		return TruncatePrompt(promptCombo)
	case model.CategorySet:
		return TruncatePrompt(promptSet)
	case model.CategoryEarring:
		return TruncatePrompt(singleItemPrompt("Earrings", "ears",
			"Earrings must be attached precisely to the center of each earlobe piercing, hanging straight downward with natural gravity, scaled proportionally to the model's ear and face (no oversized or floating appearance)."))
	case model.CategoryNecklace:
		fallthrough
	default:
		// Unknown categories behave like single jewelry on the neck.
		return TruncatePrompt(singleItemPrompt("Necklace", "neck",
			"The necklace must rest naturally on the skin of the upper chest/sternum. Show the full length of the chain. Do not crop."))
	}
}

func singleItemPrompt(typeName, targetArea, placement string) string {
	return fmt.Sprintf(`Task: Technical Photo Composite (%s).
Input 1: Customer.
Input 2: %s (Product).

FRAMING RULE:
- KEEP ORIGINAL ASPECT RATIO.
- DO NOT CROP THE BOTTOM.

CRITICAL CLEANUP:
- Remove any existing jewelry on %s completely and cleanly.

STRICT RULES:
1. NO NEW GEMS: Use ONLY the design, cut, and material from Input 2.
2. IDENTITY: Keep face, skin tone, hair, and background 100%% identical.
3. PLACEMENT: %s

REALISM & FIDELITY:
- Photographic quality: ultra-realistic, sharp focus, studio lighting.
- Seamless integration: match the original's lighting, shadow, and color temperature.
- Material accuracy: realistic reflections and metal sheen, soft shadows onto the skin.`,
		typeName, typeName, targetArea, placement)
}

const promptClothing = `Task: High-Fidelity Garment Transfer (Saree/Dress).
Input 1: Customer (Model).
Input 2: Garment (Product - Saree and Blouse).

FRAMING: Maintain exact aspect ratio. Do not crop.

INSTRUCTIONS:
1. Texture Map: Wrap the EXACT fabric and pattern from Input 2 onto the Model, including the Saree and the Blouse.
2. Pose Lock: The Model's body pose, hand position, and head angle MUST be preserved from Input 1.
3. Identity Lock: Keep the Model's face, skin tone, hair, and background 100% identical.

REALISM & FIDELITY:
- Photographic quality: ultra-realistic, sharp focus, studio lighting.
- Seamless integration: match the original's lighting, shadow, and color temperature.
- Material accuracy: natural fabric folds, drapes, and wrinkles matching the Model's pose; the pallu drapes naturally over the shoulder and arm.`

const promptEyewear = `Task: Technical Photo Composite (Eyewear Virtual Try-On).
Input 1: Customer (Face).
Input 2: Eyewear Product (Glasses/Sunglasses).

CRITICAL CLEANUP:
- If the Customer is already wearing glasses, ERASE THEM completely and reconstruct the eyes and bridge of the nose.

PLACEMENT INSTRUCTIONS:
1. BRIDGE: Place the bridge of the glasses exactly on the bridge of the Customer's nose.
2. EARS: The arms (temples) of the glasses must go OVER the ears, not through the head.
3. ALIGNMENT: Align the frame horizontally with the eyes.

STRICT RULES:
1. IDENTITY: Keep the Customer's face, skin tone, and hair 100% IDENTICAL.
2. PRODUCT: Use the EXACT design from Input 2 (frame shape, color, and lens color).
3. TRANSPARENCY: Clear lenses keep the eyes visible; dark lenses hide them.

REALISM & FIDELITY:
- Seamless integration: match lighting, shadow, and color temperature; realistic reflections on the frame and soft shadows onto the skin.`

const promptCombo = `Task: Technical Photo Composite (Multi-Item Mix & Match).
Input 1: Customer.
Input 2: Combined Jewelry Reference (contains a separate Necklace AND Earrings).

CRITICAL ANALYSIS:
- Input 2 contains two separate items merged side-by-side.
- Identify the Necklace object. Identify the Earring objects.

CRITICAL CLEANUP:
- Erase ALL existing jewelry from the Customer (neck and ears).
- Restore skin texture before placing new items.

PLACEMENT INSTRUCTIONS:
1. NECKLACE: Place the necklace on the Customer's upper chest/sternum.
2. EARRINGS: Hang them from the earlobes, sized realistically to the Customer's head and face.

STRICT RULES:
- IDENTITY: Keep the Customer's face 100% identical.
- DESIGN: Copy pixel-for-pixel from Input 2.
- COLOR LOCK: Do not change stone colors.`

const promptSet = `Task: Technical Photo Composite (Jewelry Set).
Input 1: Customer.
Input 2: Jewelry Set (Product).

FRAMING:
- DO NOT CROP. Maintain full view of chest and shoulders.

CRITICAL CLEANUP:
- If the Customer is wearing OLD jewelry, ERASE IT completely and cleanly.

STRICT RULES:
1. NO NEW GEMS: Use ONLY the design, cut, and material from Input 2.
2. COLOR LOCK: Do not change stone or metal colors.
3. IDENTITY: Keep face, skin tone, hair, and background 100% identical.

PLACEMENT:
- Necklace: rest naturally on the upper chest/sternum, full length visible.
- Earrings: hang vertically from the earlobes.

REALISM & FIDELITY:
- Seamless integration: match lighting, shadow, and color temperature; realistic reflections and metal sheen, soft shadows onto the skin.`
